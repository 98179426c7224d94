package book

import (
	"booktracker/internal/httpx"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Register mounts the book routes on mux under /api/books.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/books", h.List)
	mux.HandleFunc("POST /api/books", h.Create)
	mux.HandleFunc("GET /api/books/{id}", h.Get)
	mux.HandleFunc("PUT /api/books/{id}", h.Update)
	mux.HandleFunc("DELETE /api/books/{id}", h.Delete)
}

// List handles GET /api/books
// @Summary List books
// @Description Get every book in the collection
// @Tags books
// @Produce json
// @Success 200 {array} Book
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, books)
}

// Get handles GET /api/books/{id}
// @Summary Get book
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} Book
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Create handles POST /api/books
// @Summary Create book
// @Description Add a book to the collection. The id in the body is ignored.
// @Tags books
// @Accept json
// @Produce json
// @Param request body Book true "Book"
// @Success 201 {object} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in Book
	if !decodeBody(w, r, &in) {
		return
	}

	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, "/api/books/"+strconv.FormatInt(created.ID, 10), created)
}

// Update handles PUT /api/books/{id}
// @Summary Update book
// @Description Replace every field of a book. The body id must equal the path id.
// @Tags books
// @Accept json
// @Param id path int true "Book ID"
// @Param request body Book true "Book"
// @Success 204 "No Content"
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/books/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in Book
	if !decodeBody(w, r, &in) {
		return
	}

	if err := h.service.Update(r.Context(), id, in); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// Delete handles DELETE /api/books/{id}
// @Summary Delete book
// @Tags books
// @Param id path int true "Book ID"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Book not found", nil)
	case errors.Is(err, ErrIDMismatch):
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeIDMismatch, "Book id does not match the URL", nil)
	case errors.As(err, &verr):
		details := make([]httpx.ErrorDetail, len(verr.Errors))
		for i, fe := range verr.Errors {
			details[i] = httpx.ErrorDetail{Field: fe.Field, Message: fe.Message}
		}
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid input", details)
	default:
		h.internalError(w, r, err)
	}
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("book handler error: request_id=%s method=%s path=%s error=%v",
		httpx.RequestIDFrom(r), r.Method, r.URL.Path, err)
	httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Internal server error", nil)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid book id", nil)
		return 0, false
	}
	return id, true
}

var errTrailingData = errors.New("trailing data after request body")

func decodeBody(w http.ResponseWriter, r *http.Request, dst *Book) bool {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		// the body holds exactly one JSON value
		if dec.Decode(&struct{}{}) == io.EOF {
			return true
		}
		err = errTrailingData
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, httpx.CodeTooLarge, "Request body too large", nil)
		return false
	}
	httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body", nil)
	return false
}
