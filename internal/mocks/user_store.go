package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/quill-api/internal/domain"
	"github.com/phrazzld/quill-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// Data for default implementation, keyed by email
	Users      map[string]*domain.User
	LastUserID uuid.UUID
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[string]*domain.User),
	}
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	if m.Users == nil {
		m.Users = make(map[string]*domain.User)
	}
	if _, exists := m.Users[user.Email]; exists {
		return store.ErrEmailExists
	}

	m.Users[user.Email] = user
	m.LastUserID = user.ID
	return nil
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	user, exists := m.Users[domain.NormalizeEmail(email)]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	for _, user := range m.Users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}
