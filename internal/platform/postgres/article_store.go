package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/quill-api/internal/domain"
	"github.com/phrazzld/quill-api/internal/platform/logger"
	"github.com/phrazzld/quill-api/internal/store"
)

const articleColumns = `id, title, description, text, image_url, video_url, likes, publish_date, author_id, updated_at`

// orderClauses maps each sort key to its ORDER BY. The id tie-break keeps
// listings stable; COLLATE "C" gives byte-wise title ordering.
var orderClauses = map[domain.ArticleSort]string{
	domain.SortByDate:  `publish_date DESC, id ASC`,
	domain.SortByLikes: `likes DESC, id ASC`,
	domain.SortByTitle: `title COLLATE "C" ASC, id ASC`,
}

// PostgresArticleStore implements store.ArticleStore on PostgreSQL.
type PostgresArticleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresArticleStore creates a new PostgreSQL implementation of the ArticleStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresArticleStore(db store.DBTX, logger *slog.Logger) *PostgresArticleStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresArticleStore{
		db:     db,
		logger: logger.With(slog.String("component", "article_store")),
	}
}

var _ store.ArticleStore = (*PostgresArticleStore)(nil)

// Create implements store.ArticleStore.Create
func (s *PostgresArticleStore) Create(ctx context.Context, article *domain.Article) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := article.Validate(); err != nil {
		log.Warn("article validation failed during create",
			slog.String("error", err.Error()),
			slog.String("article_id", article.ID.String()))
		return err
	}

	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := exec(ctx, s.db, "article_create", query,
		article.ID,
		article.Title,
		article.Description,
		article.Text,
		nullString(article.ImageURL),
		nullString(article.VideoURL),
		article.Likes,
		article.PublishDate,
		nullUUID(article.AuthorID),
		article.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("article author does not exist",
				slog.String("article_id", article.ID.String()))
			return fmt.Errorf("%w: author not found", store.ErrInvalidEntity)
		}
		log.Error("failed to create article",
			slog.String("error", err.Error()),
			slog.String("article_id", article.ID.String()))
		return MapError(err)
	}

	log.Info("article created successfully", slog.String("article_id", article.ID.String()))
	return nil
}

// GetByID implements store.ArticleStore.GetByID
func (s *PostgresArticleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`
	return s.getOne(ctx, "article_get_by_id", query, id)
}

// List implements store.ArticleStore.List
func (s *PostgresArticleStore) List(ctx context.Context, sort domain.ArticleSort) ([]*domain.Article, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	order, ok := orderClauses[sort]
	if !ok {
		order = orderClauses[domain.SortByDate]
	}
	query := `SELECT ` + articleColumns + ` FROM articles ORDER BY ` + order

	articles := []*domain.Article{}
	err := queryMany(ctx, s.db, "article_list", func(row rowScanner) error {
		a, err := scanArticle(row)
		if err != nil {
			return err
		}
		articles = append(articles, a)
		return nil
	}, query)
	if err != nil {
		log.Error("failed to list articles",
			slog.String("sort", string(sort)),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("articles listed", slog.Int("count", len(articles)), slog.String("sort", string(sort)))
	return articles, nil
}

// Update implements store.ArticleStore.Update.
// Only editable columns are written, so concurrent likes survive.
func (s *PostgresArticleStore) Update(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := article.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE articles
		SET title = $2, description = $3, text = $4, image_url = $5, video_url = $6, updated_at = $7
		WHERE id = $1
		RETURNING ` + articleColumns

	updated, err := s.getOne(ctx, "article_update", query,
		article.ID,
		article.Title,
		article.Description,
		article.Text,
		nullString(article.ImageURL),
		nullString(article.VideoURL),
		article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	log.Info("article updated successfully", slog.String("article_id", article.ID.String()))
	return updated, nil
}

// IncrementLikes implements store.ArticleStore.IncrementLikes.
// The increment happens inside a single UPDATE so concurrent calls serialize
// on the row lock.
func (s *PostgresArticleStore) IncrementLikes(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	query := `
		UPDATE articles
		SET likes = likes + 1
		WHERE id = $1
		RETURNING ` + articleColumns

	return s.getOne(ctx, "article_increment_likes", query, id)
}

func (s *PostgresArticleStore) getOne(ctx context.Context, operation, query string, args ...any) (*domain.Article, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var article *domain.Article
	err := queryOne(ctx, s.db, operation, func(row rowScanner) error {
		var err error
		article, err = scanArticle(row)
		return err
	}, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrArticleNotFound
		}
		log.Error("article query failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return article, nil
}

func scanArticle(row rowScanner) (*domain.Article, error) {
	var (
		a        domain.Article
		imageURL sql.NullString
		videoURL sql.NullString
		authorID uuid.NullUUID
	)
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Description,
		&a.Text,
		&imageURL,
		&videoURL,
		&a.Likes,
		&a.PublishDate,
		&authorID,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if imageURL.Valid {
		a.ImageURL = &imageURL.String
	}
	if videoURL.Valid {
		a.VideoURL = &videoURL.String
	}
	if authorID.Valid {
		a.AuthorID = &authorID.UUID
	}
	a.PublishDate = a.PublishDate.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
