package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"booktracker/internal/book"
	"booktracker/internal/client"
	"booktracker/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCreator struct {
	mock.Mock
}

func (m *mockCreator) CreateBook(ctx context.Context, b book.Book) (book.Book, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(book.Book), args.Error(1)
}

func TestSampleBooks_AreValid(t *testing.T) {
	for _, b := range sampleBooks() {
		assert.NoError(t, book.Validate(b), b.Title)
	}
}

func TestGenerateBooks_AreValid(t *testing.T) {
	books := generateBooks(50)
	require.Len(t, books, 50)
	for _, b := range books {
		assert.NoError(t, book.Validate(b), b.Title)
	}
}

func TestSeed_StopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	books := sampleBooks()[:3]

	m := new(mockCreator)
	m.On("CreateBook", ctx, books[0]).Return(book.Book{ID: 1}, nil)
	m.On("CreateBook", ctx, books[1]).Return(book.Book{}, errors.New("bad gateway"))

	n, err := seed(ctx, m, books)

	assert.Equal(t, 1, n)
	assert.ErrorContains(t, err, books[1].Title)
	m.AssertNotCalled(t, "CreateBook", ctx, books[2])
}

func TestSeed_AgainstAPI(t *testing.T) {
	srv, _ := testutil.NewBookServer(t)
	ctx := context.Background()
	c := client.NewClient(srv.URL, 5*time.Second)

	n, err := seed(ctx, c, sampleBooks())
	require.NoError(t, err)
	assert.Equal(t, len(sampleBooks()), n)

	all, err := c.ListBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, n)
	assert.Equal(t, "Dom Casmurro", all[0].Title)
}
