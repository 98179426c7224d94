package book

import (
	"context"
	"sync"
)

// MemoryRepo keeps the collection in process memory. Contents are lost on restart.
type MemoryRepo struct {
	mu     sync.RWMutex
	books  []Book
	lastID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) List(ctx context.Context) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Book, len(r.books))
	for i, b := range r.books {
		out[i] = clone(b)
	}
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id int64) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return Book{}, ErrNotFound
	}
	return clone(r.books[i]), nil
}

func (r *MemoryRepo) Create(ctx context.Context, b *Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	b.ID = r.lastID
	r.books = append(r.books, clone(*b))
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, b Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(b.ID)
	if i < 0 {
		return ErrNotFound
	}
	r.books[i] = clone(b)
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.books = append(r.books[:i], r.books[i+1:]...)
	return nil
}

func (r *MemoryRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}

// indexOf must be called with r.mu held.
func (r *MemoryRepo) indexOf(id int64) int {
	for i := range r.books {
		if r.books[i].ID == id {
			return i
		}
	}
	return -1
}

// clone detaches the rating pointer so callers cannot mutate stored records.
func clone(b Book) Book {
	if b.Rating != nil {
		b.Rating = IntPtr(*b.Rating)
	}
	return b
}
