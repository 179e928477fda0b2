package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxPasswordLength is bcrypt's input limit in bytes.
const MaxPasswordLength = 72

// User represents a registered account.
// The plaintext password never lives on this struct; only the hash is kept.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with a fresh ID from an already hashed password.
// Returns a *ValidationError when the email or hash is empty.
func NewUser(email, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New(),
		Email:          NormalizeEmail(email),
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "is required", ErrInvalidID)
	}
	if u.Email == "" {
		return NewValidationError("email", "is required", nil)
	}
	if u.HashedPassword == "" {
		return NewValidationError("password", "is required", nil)
	}
	return nil
}

// RequireCredentials checks that both halves of an email/password pair are
// present. Login uses it on its own so an over-long password fails the
// hash comparison like any other wrong password.
func RequireCredentials(email, password string) error {
	var missing []string
	if strings.TrimSpace(email) == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return NewValidationError(strings.Join(missing, ", "), "is required", nil)
	}
	return nil
}

// ValidateCredentials checks a new email/password pair before registration.
// Passwords longer than MaxPasswordLength cannot be hashed and are rejected.
func ValidateCredentials(email, password string) error {
	if err := RequireCredentials(email, password); err != nil {
		return err
	}
	if len(password) > MaxPasswordLength {
		return NewValidationError("password", "is too long", nil)
	}
	return nil
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
