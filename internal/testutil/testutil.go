package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"booktracker/internal/book"
)

// TestBook returns a valid book in progress, without an id.
func TestBook() book.Book {
	return book.Book{
		Title:       "Grande Sertão: Veredas",
		Author:      "João Guimarães Rosa",
		Genre:       "Romance",
		Pages:       624,
		CurrentPage: 120,
		Status:      book.StatusReading,
		Rating:      book.IntPtr(5),
	}
}

// NewBookServer serves the book API over an in-memory store for the
// lifetime of the test.
func NewBookServer(t *testing.T) (*httptest.Server, *book.MemoryRepo) {
	t.Helper()
	repo := book.NewMemoryRepo()
	mux := http.NewServeMux()
	book.NewHTTPHandler(book.NewService(repo)).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, repo
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// RecordResponse is a decoded error response.
type RecordResponse struct {
	Code      int
	Header    http.Header
	ErrorCode string
	Details   []book.FieldError
	RequestID string
}

// RecordHTTPResponse decodes the error envelope of w, if any.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var env struct {
		Error struct {
			Code    string            `json:"code"`
			Details []book.FieldError `json:"details"`
		} `json:"error"`
		Meta struct {
			RequestID string `json:"request_id"`
		} `json:"meta"`
	}
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &env)
	}

	return RecordResponse{
		Code:      result.StatusCode,
		Header:    result.Header,
		ErrorCode: env.Error.Code,
		Details:   env.Error.Details,
		RequestID: env.Meta.RequestID,
	}
}
