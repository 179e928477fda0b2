package auth

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

// TokenResult is returned by a successful register or login.
type TokenResult struct {
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
}

// Service provides account registration, login and token authentication.
type Service interface {
	// Register creates an account and returns a token for it.
	// Returns domain.ErrValidation for missing input and domain.ErrConflict
	// when the email is taken.
	Register(ctx context.Context, email, password string) (*TokenResult, error)

	// Login checks credentials and returns a fresh token.
	// Unknown emails and wrong passwords both return ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*TokenResult, error)

	// Authenticate resolves a bearer token to the user id it was issued for.
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
}

type serviceImpl struct {
	users  store.UserStore
	tokens JWTService
	hasher PasswordHasher
	logger *slog.Logger

	// dummyHash is compared against on unknown emails so both login
	// failures cost one bcrypt comparison.
	dummyHash string
}

var _ Service = (*serviceImpl)(nil)

// NewService creates the auth Service.
func NewService(users store.UserStore, tokens JWTService, hasher PasswordHasher, logger *slog.Logger) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user store cannot be nil")
	}
	if tokens == nil {
		return nil, fmt.Errorf("jwt service cannot be nil")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}

	return &serviceImpl{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		logger:    logger.With("component", "auth_service"),
		dummyHash: dummy,
	}, nil
}

// Register implements Service.Register
func (s *serviceImpl) Register(ctx context.Context, email, password string) (result *TokenResult, err error) {
	defer func() { metrics.RecordAuthAttempt("register", err) }()

	if err := domain.ValidateCredentials(email, password); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, NewServiceError("register", "failed to hash password", err)
	}

	user, err := domain.NewUser(email, hashed)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			s.logger.Debug("registration rejected: email exists")
			return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		s.logger.Error("failed to save user", "error", err)
		return nil, NewServiceError("register", "failed to save user", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return s.issue(ctx, "register", user.ID)
}

// Login implements Service.Login
func (s *serviceImpl) Login(ctx context.Context, email, password string) (result *TokenResult, err error) {
	defer func() { metrics.RecordAuthAttempt("login", err) }()

	if err := domain.RequireCredentials(email, password); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			_ = s.hasher.Compare(s.dummyHash, password)
			s.logger.Debug("login failed: unknown email")
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user", "error", err)
		return nil, NewServiceError("login", "failed to look up user", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		s.logger.Debug("login failed: password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, "login", user.ID)
}

// Authenticate implements Service.Authenticate
func (s *serviceImpl) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := s.tokens.ValidateToken(ctx, token)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

func (s *serviceImpl) issue(ctx context.Context, operation string, userID uuid.UUID) (*TokenResult, error) {
	token, expiresAt, err := s.tokens.GenerateToken(ctx, userID)
	if err != nil {
		s.logger.Error("failed to generate token", "error", err, "user_id", userID)
		return nil, NewServiceError(operation, "failed to generate token", err)
	}
	return &TokenResult{UserID: userID, Token: token, ExpiresAt: expiresAt}, nil
}
