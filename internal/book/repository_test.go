package book

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepository exercises the behaviour every Repository must share.
func testRepository(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	t.Run("create assigns fresh ids", func(t *testing.T) {
		repo := newRepo(t)
		a, b := validBook(), validBook()
		require.NoError(t, repo.Create(ctx, &a))
		require.NoError(t, repo.Create(ctx, &b))

		assert.Positive(t, a.ID)
		assert.Greater(t, b.ID, a.ID)
	})

	t.Run("round trip", func(t *testing.T) {
		repo := newRepo(t)
		in := validBook()
		require.NoError(t, repo.Create(ctx, &in))

		got, err := repo.Get(ctx, in.ID)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})

	t.Run("nil rating survives", func(t *testing.T) {
		repo := newRepo(t)
		in := validBook()
		in.Rating = nil
		require.NoError(t, repo.Create(ctx, &in))

		got, err := repo.Get(ctx, in.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Rating)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		repo := newRepo(t)
		for i := 0; i < 3; i++ {
			b := validBook()
			b.Title = fmt.Sprintf("Livro %d", i)
			require.NoError(t, repo.Create(ctx, &b))
		}

		books, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, books, 3)
		for i, b := range books {
			assert.Equal(t, fmt.Sprintf("Livro %d", i), b.Title)
		}
	})

	t.Run("update replaces fields", func(t *testing.T) {
		repo := newRepo(t)
		in := validBook()
		require.NoError(t, repo.Create(ctx, &in))

		in.Title = "Memórias Póstumas de Brás Cubas"
		in.Status = StatusFinished
		in.CurrentPage = in.Pages
		in.Rating = IntPtr(5)
		require.NoError(t, repo.Update(ctx, in))

		got, err := repo.Get(ctx, in.ID)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})

	t.Run("missing id", func(t *testing.T) {
		repo := newRepo(t)
		existing := validBook()
		require.NoError(t, repo.Create(ctx, &existing))

		_, err := repo.Get(ctx, existing.ID+100)
		assert.ErrorIs(t, err, ErrNotFound)

		ghost := validBook()
		ghost.ID = existing.ID + 100
		assert.ErrorIs(t, repo.Update(ctx, ghost), ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, ghost.ID), ErrNotFound)

		books, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []Book{existing}, books)
	})

	t.Run("delete is hard and ids are not reused", func(t *testing.T) {
		repo := newRepo(t)
		a, b := validBook(), validBook()
		require.NoError(t, repo.Create(ctx, &a))
		require.NoError(t, repo.Create(ctx, &b))

		require.NoError(t, repo.Delete(ctx, b.ID))
		_, err := repo.Get(ctx, b.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		c := validBook()
		require.NoError(t, repo.Create(ctx, &c))
		assert.Greater(t, c.ID, b.ID)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newRepo(t).Ping(ctx))
	})
}

func TestMemoryRepo(t *testing.T) {
	testRepository(t, func(t *testing.T) Repository {
		return NewMemoryRepo()
	})
}

func TestMemoryRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	in := validBook()
	require.NoError(t, repo.Create(ctx, &in))

	got, err := repo.Get(ctx, in.ID)
	require.NoError(t, err)
	*got.Rating = 0
	got.Title = "changed"

	again, err := repo.Get(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, *again.Rating)
	assert.Equal(t, in.Title, again.Title)
}

func TestMemoryRepo_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := validBook()
			_ = repo.Create(ctx, &b)
		}()
	}
	wg.Wait()

	books, err := repo.List(ctx)
	require.NoError(t, err)
	seen := make(map[int64]bool)
	for _, b := range books {
		assert.False(t, seen[b.ID], "duplicate id %d", b.ID)
		seen[b.ID] = true
	}
	assert.Len(t, books, 50)
}

func TestGormRepo(t *testing.T) {
	testRepository(t, func(t *testing.T) Repository {
		db, err := OpenSQLite("file::memory:")
		require.NoError(t, err)
		t.Cleanup(func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		})
		return NewGormRepo(db)
	})
}
