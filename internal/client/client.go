// Package client talks to the book store REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"booktracker/internal/book"
)

var (
	// ErrNotFound is returned when the server answers 404.
	ErrNotFound = errors.New("book not found")
	// ErrBadRequest is returned when the server answers 400.
	ErrBadRequest = errors.New("bad request")
)

// StatusError is returned for any other unexpected status code.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// APIError wraps ErrNotFound / ErrBadRequest with the server's error body.
type APIError struct {
	Err     error
	Code    string
	Message string
	Details []book.FieldError
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: "booktracker-client/1.0",
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// ListBooks handles GET /api/books
func (c *Client) ListBooks(ctx context.Context) ([]book.Book, error) {
	var books []book.Book
	if err := c.do(ctx, http.MethodGet, "/api/books", nil, http.StatusOK, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook handles GET /api/books/{id}
func (c *Client) GetBook(ctx context.Context, id int64) (book.Book, error) {
	var b book.Book
	if err := c.do(ctx, http.MethodGet, bookPath(id), nil, http.StatusOK, &b); err != nil {
		return book.Book{}, err
	}
	return b, nil
}

// CreateBook posts b and returns the stored record with its assigned id.
func (c *Client) CreateBook(ctx context.Context, b book.Book) (book.Book, error) {
	var created book.Book
	if err := c.do(ctx, http.MethodPost, "/api/books", b, http.StatusCreated, &created); err != nil {
		return book.Book{}, err
	}
	return created, nil
}

// UpdateBook replaces the book identified by b.ID.
func (c *Client) UpdateBook(ctx context.Context, b book.Book) error {
	return c.do(ctx, http.MethodPut, bookPath(b.ID), b, http.StatusNoContent, nil)
}

func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, bookPath(id), nil, http.StatusNoContent, nil)
}

func bookPath(id int64) string {
	return "/api/books/" + strconv.FormatInt(id, 10)
}

type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details []book.FieldError `json:"details"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, want int, target any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return decodeError(resp)
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var env errorEnvelope
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&env)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return &APIError{Err: ErrNotFound, Code: env.Error.Code, Message: env.Error.Message}
	case http.StatusBadRequest:
		return &APIError{Err: ErrBadRequest, Code: env.Error.Code, Message: env.Error.Message, Details: env.Error.Details}
	default:
		return &StatusError{StatusCode: resp.StatusCode, Code: env.Error.Code, Message: env.Error.Message}
	}
}
