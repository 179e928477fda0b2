package mocks

import (
	"errors"

	"github.com/phrazzld/quill-api/internal/service/auth"
)

// MockPasswordHasher implements auth.PasswordHasher for testing.
// By default Hash prefixes the password with "hashed:" and Compare accepts
// exactly that form.
type MockPasswordHasher struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.CompareCallCount++
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}
