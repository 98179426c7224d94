package book

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	t.Run("normalizes before storing", func(t *testing.T) {
		in := validBook()
		in.Status = StatusFinished
		in.CurrentPage = 3

		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
			assert.Equal(t, b.Pages, b.CurrentPage)
			b.ID = 1
			return nil
		})

		got, err := service.Create(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
		assert.Equal(t, in.Pages, got.CurrentPage)
	})

	t.Run("invalid input never reaches the repository", func(t *testing.T) {
		in := validBook()
		in.Author = ""

		_, err := service.Create(ctx, in)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
	})
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	t.Run("id mismatch", func(t *testing.T) {
		in := validBook()
		in.ID = 3

		err := service.Update(ctx, 4, in)
		assert.ErrorIs(t, err, ErrIDMismatch)
	})

	t.Run("not found", func(t *testing.T) {
		in := validBook()
		in.ID = 4
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(ErrNotFound)

		err := service.Update(ctx, 4, in)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("to read resets progress", func(t *testing.T) {
		in := validBook()
		in.ID = 4
		in.Status = StatusToRead
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b Book) error {
			assert.Equal(t, 0, b.CurrentPage)
			return nil
		})

		assert.NoError(t, service.Update(ctx, 4, in))
	})
}

func TestService_ListNeverNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	mockRepo.EXPECT().List(gomock.Any()).Return(nil, nil)

	books, err := NewService(mockRepo).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}
