package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/quill-api/internal/domain"
	"github.com/phrazzld/quill-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewUserStore(nil)

	user, err := domain.NewUser("reader@example.com", "$2a$10$hash")
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, user))

	t.Run("get by email", func(t *testing.T) {
		got, err := s.GetByEmail(ctx, "reader@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.HashedPassword, got.HashedPassword)
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := s.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, got.Email)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		_, err = s.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup, err := domain.NewUser("reader@example.com", "$2a$10$other")
		require.NoError(t, err)

		err = s.Create(ctx, dup)
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.Equal(t, 1, s.Count())
	})
}
