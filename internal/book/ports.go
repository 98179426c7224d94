package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book storage.
type Repository interface {
	List(ctx context.Context) ([]Book, error)
	Get(ctx context.Context, id int64) (Book, error)
	// Create stores b and assigns its ID.
	Create(ctx context.Context, b *Book) error
	Update(ctx context.Context, b Book) error
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
