package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/quill-api/internal/domain"
	"github.com/phrazzld/quill-api/internal/store"
)

// UserStore is a mutex-guarded store.UserStore.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]domain.User
	byEmail map[string]uuid.UUID
	logger  *slog.Logger
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates an empty store. A nil logger falls back to slog.Default.
func NewUserStore(logger *slog.Logger) *UserStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{
		byID:    make(map[uuid.UUID]domain.User),
		byEmail: make(map[string]uuid.UUID),
		logger:  logger.With(slog.String("component", "memory_user_store")),
	}
}

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := user.Validate(); err != nil {
		return store.NewStoreError("user", "create", "invalid user", store.ErrInvalidEntity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.NormalizeEmail(user.Email)
	if _, exists := s.byEmail[key]; exists {
		s.logger.Debug("email already registered", slog.String("user_id", user.ID.String()))
		return store.ErrEmailExists
	}

	s.byID[user.ID] = *user
	s.byEmail[key] = user.ID
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

// GetByEmail implements store.UserStore.GetByEmail.
// The address is normalized before lookup.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	u := s.byID[id]
	return &u, nil
}

// Count returns the number of stored users.
func (s *UserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
