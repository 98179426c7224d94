package book

import (
	"context"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every book in the collection.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// Get returns a book by its id.
func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new book. Any id in the input is ignored.
func (s *Service) Create(ctx context.Context, in Book) (Book, error) {
	in.ID = 0
	Normalize(&in)
	if err := Validate(in); err != nil {
		return Book{}, err
	}
	if err := s.repo.Create(ctx, &in); err != nil {
		return Book{}, err
	}
	return in, nil
}

// Update replaces every mutable field of the book with the given id.
func (s *Service) Update(ctx context.Context, id int64, in Book) error {
	if in.ID != id {
		return ErrIDMismatch
	}
	Normalize(&in)
	if err := Validate(in); err != nil {
		return err
	}
	return s.repo.Update(ctx, in)
}

// Delete removes a book.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Ready reports whether the storage backend is reachable.
func (s *Service) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
