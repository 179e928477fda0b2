package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/quill-api/internal/domain"
	"github.com/phrazzld/quill-api/internal/store"
)

// MockArticleStore implements store.ArticleStore for testing.
// Methods without a function field return store.ErrArticleNotFound, or an
// empty list for List.
type MockArticleStore struct {
	CreateFn         func(ctx context.Context, article *domain.Article) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	ListFn           func(ctx context.Context, sort domain.ArticleSort) ([]*domain.Article, error)
	UpdateFn         func(ctx context.Context, article *domain.Article) (*domain.Article, error)
	IncrementLikesFn func(ctx context.Context, id uuid.UUID) (*domain.Article, error)
}

var _ store.ArticleStore = (*MockArticleStore)(nil)

// Create implements the ArticleStore interface
func (m *MockArticleStore) Create(ctx context.Context, article *domain.Article) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, article)
	}
	return nil
}

// GetByID implements the ArticleStore interface
func (m *MockArticleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrArticleNotFound
}

// List implements the ArticleStore interface
func (m *MockArticleStore) List(ctx context.Context, sort domain.ArticleSort) ([]*domain.Article, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, sort)
	}
	return []*domain.Article{}, nil
}

// Update implements the ArticleStore interface
func (m *MockArticleStore) Update(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, article)
	}
	return nil, store.ErrArticleNotFound
}

// IncrementLikes implements the ArticleStore interface
func (m *MockArticleStore) IncrementLikes(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	if m.IncrementLikesFn != nil {
		return m.IncrementLikesFn(ctx, id)
	}
	return nil, store.ErrArticleNotFound
}
