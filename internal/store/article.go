package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/quill-api/internal/domain"
)

// ArticleStore defines the interface for article persistence.
// Implementations must be safe for concurrent use.
type ArticleStore interface {
	// Create saves a new article.
	// Returns ErrInvalidEntity if the article violates a storage constraint.
	Create(ctx context.Context, article *domain.Article) error

	// GetByID retrieves an article by its unique ID.
	// Returns ErrArticleNotFound if the article does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)

	// List returns every stored article in the requested order.
	// Ties are always broken by ascending ID so results are deterministic:
	//   - SortByDate:  publish date descending
	//   - SortByLikes: likes descending
	//   - SortByTitle: title ascending, byte-wise
	List(ctx context.Context, sort domain.ArticleSort) ([]*domain.Article, error)

	// Update writes the editable fields of an existing article (title,
	// description, text, image URL, video URL, updated-at) and returns the
	// stored result. Likes, author and publish date are never touched, so a
	// concurrent like is not lost.
	// Returns ErrArticleNotFound if the article does not exist.
	Update(ctx context.Context, article *domain.Article) (*domain.Article, error)

	// IncrementLikes atomically adds one like and returns the updated article.
	// Concurrent calls on the same ID never lose an increment.
	// Returns ErrArticleNotFound if the article does not exist; nothing is written.
	IncrementLikes(ctx context.Context, id uuid.UUID) (*domain.Article, error)
}
