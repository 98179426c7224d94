package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, []string{"a", "b"})

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Error("Expected Content-Type application/json")
	}

	var got []string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected bare array body, got %v", got)
	}
}

func TestJSONCreated(t *testing.T) {
	w := httptest.NewRecorder()

	JSONCreated(w, "/api/books/7", map[string]int{"id": 7})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/api/books/7" {
		t.Errorf("Expected Location header, got %q", got)
	}
}

func TestJSONError(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(ContextWithRequestID(r.Context(), "req-1"))
	w := httptest.NewRecorder()
	details := []ErrorDetail{
		{Field: "title", Message: "O campo Livro é obrigatório."},
	}

	JSONError(w, r, http.StatusBadRequest, CodeValidation, "Invalid input", details)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var response ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Success {
		t.Error("Expected success to be false")
	}
	if response.Error.Code != CodeValidation {
		t.Errorf("Expected error code %s, got %s", CodeValidation, response.Error.Code)
	}
	if len(response.Error.Details) != 1 {
		t.Errorf("Expected 1 error detail, got %d", len(response.Error.Details))
	}
	meta, ok := response.Meta.(map[string]interface{})
	if !ok || meta["request_id"] != "req-1" {
		t.Errorf("Expected request_id in meta, got %v", response.Meta)
	}
}

func TestJSONSuccessNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	JSONSuccessNoContent(w)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
}
