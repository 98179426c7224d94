package book

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBook() Book {
	return Book{
		ID:          1,
		Title:       "Dom Casmurro",
		Author:      "Machado de Assis",
		Genre:       "Romance",
		Pages:       256,
		CurrentPage: 40,
		Status:      StatusReading,
		Rating:      IntPtr(4),
	}
}

func newHandler(t *testing.T) (*MockRepository, *http.ServeMux) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	mux := http.NewServeMux()
	NewHTTPHandler(NewService(mockRepo)).Register(mux)
	return mockRepo, mux
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestHTTPHandler_List(t *testing.T) {
	mockRepo, mux := newHandler(t)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any()).Return([]Book{testBook()}, nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var got []Book
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, []Book{testBook()}, got)
	})

	t.Run("empty list encodes as array", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any()).Return(nil, nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("error", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any()).Return(nil, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	mockRepo, mux := newHandler(t)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), int64(1)).Return(testBook(), nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"currentPage":40`)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), int64(99)).Return(Book{}, ErrNotFound)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/99", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_Create(t *testing.T) {
	mockRepo, mux := newHandler(t)

	t.Run("created", func(t *testing.T) {
		in := testBook()
		in.ID = 42
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
			assert.Equal(t, int64(0), b.ID, "client id must be ignored")
			b.ID = 7
			return nil
		})

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/books", jsonBody(t, in)))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/api/books/7", w.Header().Get("Location"))
		var got Book
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, int64(7), got.ID)
		assert.Equal(t, in.Title, got.Title)
	})

	t.Run("validation error", func(t *testing.T) {
		in := testBook()
		in.Title = "  "
		in.Pages = 0

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/books", jsonBody(t, in)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
		assert.Contains(t, w.Body.String(), `"field":"title"`)
		assert.Contains(t, w.Body.String(), `"field":"pages"`)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBufferString("{")))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("trailing data after the object", func(t *testing.T) {
		in := testBook()
		in.ID = 0
		payload, err := json.Marshal(in)
		require.NoError(t, err)

		for _, tail := range []string{"garbage", `{"title":"x"}`, "]"} {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/books",
				bytes.NewBufferString(string(payload)+tail)))

			assert.Equal(t, http.StatusBadRequest, w.Code, "tail %q", tail)
			assert.Contains(t, w.Body.String(), "BAD_REQUEST")
		}
	})

	t.Run("trailing whitespace is accepted", func(t *testing.T) {
		in := testBook()
		in.ID = 0
		payload, err := json.Marshal(in)
		require.NoError(t, err)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
			b.ID = 8
			return nil
		})

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/books",
			bytes.NewBufferString(string(payload)+"\n")))

		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestHTTPHandler_Update(t *testing.T) {
	mockRepo, mux := newHandler(t)

	t.Run("no content", func(t *testing.T) {
		in := testBook()
		mockRepo.EXPECT().Update(gomock.Any(), in).Return(nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/books/1", jsonBody(t, in)))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("id mismatch", func(t *testing.T) {
		in := testBook()
		in.ID = 2

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/books/1", jsonBody(t, in)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ID_MISMATCH")
	})

	t.Run("not found", func(t *testing.T) {
		in := testBook()
		in.ID = 99
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(ErrNotFound)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/books/99", jsonBody(t, in)))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("trailing data after the object", func(t *testing.T) {
		payload, err := json.Marshal(testBook())
		require.NoError(t, err)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/books/1",
			bytes.NewBufferString(string(payload)+"garbage")))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	mockRepo, mux := newHandler(t)

	t.Run("no content", func(t *testing.T) {
		mockRepo.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/books/1", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().Delete(gomock.Any(), int64(5)).Return(ErrNotFound)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/books/5", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
