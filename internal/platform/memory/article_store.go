package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/quill-api/internal/domain"
	"github.com/phrazzld/quill-api/internal/store"
)

// ArticleStore is a mutex-guarded store.ArticleStore.
// Every read returns a copy so callers can never mutate stored records.
type ArticleStore struct {
	mu       sync.RWMutex
	articles map[uuid.UUID]*domain.Article
	logger   *slog.Logger
}

// Ensure ArticleStore implements store.ArticleStore interface
var _ store.ArticleStore = (*ArticleStore)(nil)

// NewArticleStore creates an empty store. A nil logger falls back to slog.Default.
func NewArticleStore(logger *slog.Logger) *ArticleStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArticleStore{
		articles: make(map[uuid.UUID]*domain.Article),
		logger:   logger.With(slog.String("component", "memory_article_store")),
	}
}

// Create implements store.ArticleStore.Create
func (s *ArticleStore) Create(ctx context.Context, article *domain.Article) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := article.Validate(); err != nil {
		return store.NewStoreError("article", "create", err.Error(), store.ErrInvalidEntity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.articles[article.ID]; exists {
		return store.NewStoreError("article", "create", "duplicate id", store.ErrDuplicate)
	}
	stored := article.Clone()
	stored.AuthorEmail = ""
	s.articles[article.ID] = stored
	return nil
}

// GetByID implements store.ArticleStore.GetByID
func (s *ArticleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, store.ErrArticleNotFound
	}
	return a.Clone(), nil
}

// List implements store.ArticleStore.List
func (s *ArticleStore) List(ctx context.Context, order domain.ArticleSort) ([]*domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]*domain.Article, 0, len(s.articles))
	for _, a := range s.articles {
		out = append(out, a.Clone())
	}
	s.mu.RUnlock()

	less := lessFor(order)
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

// Update implements store.ArticleStore.Update
func (s *ArticleStore) Update(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := article.Validate(); err != nil {
		return nil, store.NewStoreError("article", "update", err.Error(), store.ErrInvalidEntity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.articles[article.ID]
	if !ok {
		return nil, store.ErrArticleNotFound
	}

	next := article.Clone()
	current.Title = next.Title
	current.Description = next.Description
	current.Text = next.Text
	current.ImageURL = next.ImageURL
	current.VideoURL = next.VideoURL
	current.UpdatedAt = next.UpdatedAt
	return current.Clone(), nil
}

// IncrementLikes implements store.ArticleStore.IncrementLikes
func (s *ArticleStore) IncrementLikes(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, store.ErrArticleNotFound
	}
	a.Likes++
	return a.Clone(), nil
}

// lessFor returns the ordering for a sort key with ID as the tie-break.
func lessFor(order domain.ArticleSort) func(a, b *domain.Article) bool {
	byID := func(a, b *domain.Article) bool {
		return a.ID.String() < b.ID.String()
	}

	switch order {
	case domain.SortByLikes:
		return func(a, b *domain.Article) bool {
			if a.Likes != b.Likes {
				return a.Likes > b.Likes
			}
			return byID(a, b)
		}
	case domain.SortByTitle:
		return func(a, b *domain.Article) bool {
			if a.Title != b.Title {
				return a.Title < b.Title
			}
			return byID(a, b)
		}
	default:
		return func(a, b *domain.Article) bool {
			if !a.PublishDate.Equal(b.PublishDate) {
				return a.PublishDate.After(b.PublishDate)
			}
			return byID(a, b)
		}
	}
}
