package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/quill-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
// Users are created once and never mutated or deleted.
type UserStore interface {
	// Create saves a new user to the store.
	// The user must already carry a hashed password; stores never hash.
	// Returns ErrEmailExists if the email is already taken, in which case
	// no record is written.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their normalized email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
