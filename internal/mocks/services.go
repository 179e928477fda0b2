package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/quill-api/internal/domain"
	"github.com/phrazzld/quill-api/internal/service/article"
	"github.com/phrazzld/quill-api/internal/service/auth"
)

// MockAuthService implements auth.Service for handler tests.
type MockAuthService struct {
	RegisterFn     func(ctx context.Context, email, password string) (*auth.TokenResult, error)
	LoginFn        func(ctx context.Context, email, password string) (*auth.TokenResult, error)
	AuthenticateFn func(ctx context.Context, token string) (uuid.UUID, error)
}

var _ auth.Service = (*MockAuthService)(nil)

// Register implements auth.Service
func (m *MockAuthService) Register(ctx context.Context, email, password string) (*auth.TokenResult, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, email, password)
	}
	return &auth.TokenResult{UserID: uuid.New(), Token: "token"}, nil
}

// Login implements auth.Service
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*auth.TokenResult, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, email, password)
	}
	return &auth.TokenResult{UserID: uuid.New(), Token: "token"}, nil
}

// Authenticate implements auth.Service
func (m *MockAuthService) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, token)
	}
	return uuid.Nil, auth.ErrInvalidToken
}

// MockArticleService implements article.Service for handler tests.
type MockArticleService struct {
	Mode article.AuthMode

	CreateFn func(ctx context.Context, callerID uuid.UUID, in article.CreateInput) (*domain.Article, error)
	ListFn   func(ctx context.Context, opts article.ListOptions) ([]*domain.Article, error)
	LikeFn   func(ctx context.Context, callerID, articleID uuid.UUID) (*domain.Article, error)
	UpdateFn func(ctx context.Context, callerID, articleID uuid.UUID, patch domain.ArticlePatch) (*domain.Article, error)
}

var _ article.Service = (*MockArticleService)(nil)

// Create implements article.Service
func (m *MockArticleService) Create(ctx context.Context, callerID uuid.UUID, in article.CreateInput) (*domain.Article, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, callerID, in)
	}
	return nil, domain.ErrNotFound
}

// List implements article.Service
func (m *MockArticleService) List(ctx context.Context, opts article.ListOptions) ([]*domain.Article, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, opts)
	}
	return []*domain.Article{}, nil
}

// Like implements article.Service
func (m *MockArticleService) Like(ctx context.Context, callerID, articleID uuid.UUID) (*domain.Article, error) {
	if m.LikeFn != nil {
		return m.LikeFn(ctx, callerID, articleID)
	}
	return nil, domain.ErrNotFound
}

// Update implements article.Service
func (m *MockArticleService) Update(
	ctx context.Context,
	callerID, articleID uuid.UUID,
	patch domain.ArticlePatch,
) (*domain.Article, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, callerID, articleID, patch)
	}
	return nil, domain.ErrNotFound
}

// AuthMode implements article.Service
func (m *MockArticleService) AuthMode() article.AuthMode {
	if m.Mode == "" {
		return article.ModeRequired
	}
	return m.Mode
}
