package article

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/quill-api/internal/domain"
	"github.com/phrazzld/quill-api/internal/platform/metrics"
	"github.com/phrazzld/quill-api/internal/store"
)

// AuthMode selects whether article writes need an authenticated caller.
type AuthMode string

const (
	// ModeRequired needs a caller for writes and restricts edits to the author.
	ModeRequired AuthMode = "required"
	// ModeDisabled serves every operation anonymously.
	ModeDisabled AuthMode = "disabled"
)

// ParseAuthMode converts a configuration value to an AuthMode.
func ParseAuthMode(s string) (AuthMode, error) {
	switch AuthMode(s) {
	case ModeRequired, ModeDisabled:
		return AuthMode(s), nil
	default:
		return "", fmt.Errorf("unknown article auth mode %q", s)
	}
}

// CreateInput holds the fields supplied when submitting an article.
type CreateInput struct {
	Title       string
	Description string
	Text        string
	ImageURL    *string
	VideoURL    *string
}

// ListOptions controls ordering and author expansion when listing.
type ListOptions struct {
	Sort         domain.ArticleSort
	ExpandAuthor bool
}

// Service provides article operations.
type Service interface {
	// Create validates and stores a new article with zero likes.
	Create(ctx context.Context, callerID uuid.UUID, in CreateInput) (*domain.Article, error)

	// List returns every article in the requested order.
	List(ctx context.Context, opts ListOptions) ([]*domain.Article, error)

	// Like adds exactly one like and returns the updated article.
	Like(ctx context.Context, callerID uuid.UUID, articleID uuid.UUID) (*domain.Article, error)

	// Update applies a partial edit and returns the updated article.
	Update(ctx context.Context, callerID uuid.UUID, articleID uuid.UUID, patch domain.ArticlePatch) (*domain.Article, error)

	// AuthMode reports the mode the service was built with.
	AuthMode() AuthMode
}

// Option configures a Service.
type Option func(*serviceImpl)

// WithClock overrides the time source used for publish and update times.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

type serviceImpl struct {
	articles store.ArticleStore
	users    store.UserStore
	mode     AuthMode
	now      func() time.Time
	logger   *slog.Logger
}

var _ Service = (*serviceImpl)(nil)

// NewService creates an article Service running in mode.
// users is only consulted to expand authors when listing.
func NewService(
	articles store.ArticleStore,
	users store.UserStore,
	mode AuthMode,
	logger *slog.Logger,
	opts ...Option,
) (Service, error) {
	if articles == nil {
		return nil, fmt.Errorf("article store cannot be nil")
	}
	if users == nil {
		return nil, fmt.Errorf("user store cannot be nil")
	}
	if _, err := ParseAuthMode(string(mode)); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &serviceImpl{
		articles: articles,
		users:    users,
		mode:     mode,
		now:      time.Now,
		logger:   logger.With("component", "article_service", "auth_mode", string(mode)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AuthMode implements Service.AuthMode
func (s *serviceImpl) AuthMode() AuthMode {
	return s.mode
}

// Create implements Service.Create
func (s *serviceImpl) Create(ctx context.Context, callerID uuid.UUID, in CreateInput) (created *domain.Article, err error) {
	defer func() { metrics.RecordArticleOperation("create", err) }()

	var author *uuid.UUID
	if s.mode == ModeRequired {
		if err := requireCaller(callerID); err != nil {
			return nil, err
		}
		author = &callerID
	}

	a, err := domain.NewArticle(in.Title, in.Description, in.Text, in.ImageURL, in.VideoURL, author, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.articles.Create(ctx, a); err != nil {
		return nil, s.translate("create", err)
	}

	s.logger.Info("article created", "article_id", a.ID)
	return a, nil
}

// List implements Service.List
func (s *serviceImpl) List(ctx context.Context, opts ListOptions) (list []*domain.Article, err error) {
	defer func() { metrics.RecordArticleOperation("list", err) }()

	sort := domain.ParseArticleSort(string(opts.Sort))
	articles, err := s.articles.List(ctx, sort)
	if err != nil {
		return nil, s.translate("list", err)
	}

	if opts.ExpandAuthor {
		if err := s.expandAuthors(ctx, articles); err != nil {
			return nil, s.translate("list", err)
		}
	}
	return articles, nil
}

// Like implements Service.Like
func (s *serviceImpl) Like(ctx context.Context, callerID uuid.UUID, articleID uuid.UUID) (liked *domain.Article, err error) {
	defer func() { metrics.RecordArticleOperation("like", err) }()

	if s.mode == ModeRequired {
		if err := requireCaller(callerID); err != nil {
			return nil, err
		}
	}

	a, err := s.articles.IncrementLikes(ctx, articleID)
	if err != nil {
		return nil, s.translate("like", err)
	}

	s.logger.Debug("article liked", "article_id", articleID, "likes", a.Likes)
	return a, nil
}

// Update implements Service.Update.
// Authorization and validation complete before anything is written.
func (s *serviceImpl) Update(
	ctx context.Context,
	callerID uuid.UUID,
	articleID uuid.UUID,
	patch domain.ArticlePatch,
) (updated *domain.Article, err error) {
	defer func() { metrics.RecordArticleOperation("update", err) }()

	if s.mode == ModeRequired {
		if err := requireCaller(callerID); err != nil {
			return nil, err
		}
	}

	current, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, s.translate("update", err)
	}

	if s.mode == ModeRequired && !current.IsAuthoredBy(callerID) {
		s.logger.Warn("update rejected: caller is not the author",
			"article_id", articleID,
			"caller_id", callerID)
		return nil, fmt.Errorf("%w: only the author can edit this article", domain.ErrAuthorization)
	}

	if patch.IsEmpty() {
		return current, nil
	}

	next, err := current.ApplyPatch(patch, s.now())
	if err != nil {
		return nil, err
	}

	stored, err := s.articles.Update(ctx, next)
	if err != nil {
		return nil, s.translate("update", err)
	}

	s.logger.Info("article updated", "article_id", articleID)
	return stored, nil
}

// expandAuthors fills AuthorEmail, fetching each distinct author once.
// Authors that no longer resolve are left blank.
func (s *serviceImpl) expandAuthors(ctx context.Context, articles []*domain.Article) error {
	emails := make(map[uuid.UUID]string)
	for _, a := range articles {
		if a.AuthorID == nil {
			continue
		}
		email, seen := emails[*a.AuthorID]
		if !seen {
			u, err := s.users.GetByID(ctx, *a.AuthorID)
			switch {
			case err == nil:
				email = u.Email
			case errors.Is(err, store.ErrUserNotFound):
				s.logger.Warn("article author not found", "article_id", a.ID, "author_id", *a.AuthorID)
			default:
				return err
			}
			emails[*a.AuthorID] = email
		}
		a.AuthorEmail = email
	}
	return nil
}

func requireCaller(callerID uuid.UUID) error {
	if callerID == uuid.Nil {
		return fmt.Errorf("%w: authentication required", domain.ErrAuthentication)
	}
	return nil
}

// translate maps store errors onto domain errors. Anything unexpected is
// logged and wrapped in a ServiceError. Missing authors are handled by
// expandAuthors, so a not-found here always means the article.
func (s *serviceImpl) translate(operation string, err error) error {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return err
	case store.IsNotFoundError(err):
		return fmt.Errorf("%w: article not found", domain.ErrNotFound)
	case errors.Is(err, store.ErrInvalidEntity):
		s.logger.Warn("store rejected article", "operation", operation, "error", err)
		return domain.NewValidationError("article", "was rejected by the store", nil)
	default:
		s.logger.Error("article store failure", "operation", operation, "error", err)
		return NewServiceError(operation, "store failure", err)
	}
}
