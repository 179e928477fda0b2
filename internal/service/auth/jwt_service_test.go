package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/quill-api/internal/config"
	"github.com/phrazzld/quill-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 0})
	assert.Error(t, err)

	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	userID := uuid.New()
	svc := NewTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime))

	token, expiresAt, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, expiresAt.Equal(fixedTime.Add(tokenLifetime)))

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(tokenLifetime).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestTokenPayloadShape(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := NewTestJWTService(testSecret, time.Hour, time.Now)
	token, _, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, map[string]any{"id": userID.String()}, payload["user"])
	assert.Contains(t, payload, "iat")
	assert.Contains(t, payload, "exp")
	assert.Contains(t, payload, "jti")
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	wrongSecret := "wrong-secret-that-is-long-enough-for-testing"
	userID := uuid.New()

	sign := func(claims jwt.Claims, method jwt.SigningMethod, key any) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name      string
		setupFunc func() (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func() (JWTService, string) {
				svc := NewTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime))
				token, _, _ := svc.GenerateToken(context.Background(), userID)
				return svc, token
			},
		},
		{
			name: "valid one second before expiry",
			setupFunc: func() (JWTService, string) {
				gen := NewTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime))
				token, _, _ := gen.GenerateToken(context.Background(), userID)
				return NewTestJWTService(testSecret, tokenLifetime,
					fixedClock(fixedTime.Add(tokenLifetime-time.Second))), token
			},
		},
		{
			name: "expired token",
			setupFunc: func() (JWTService, string) {
				gen := NewTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime))
				token, _, _ := gen.GenerateToken(context.Background(), userID)
				return NewTestJWTService(testSecret, tokenLifetime,
					fixedClock(fixedTime.Add(tokenLifetime+time.Second))), token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "invalid signature",
			setupFunc: func() (JWTService, string) {
				gen := NewTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime))
				token, _, _ := gen.GenerateToken(context.Background(), userID)
				return NewTestJWTService(wrongSecret, tokenLifetime, fixedClock(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func() (JWTService, string) {
				return NewTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime)),
					"this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "empty token",
			setupFunc: func() (JWTService, string) {
				return NewTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime)), ""
			},
			wantErr: ErrMissingToken,
		},
		{
			name: "wrong algorithm",
			setupFunc: func() (JWTService, string) {
				claims := jwtCustomClaims{
					User: tokenUser{ID: userID},
					RegisteredClaims: jwt.RegisteredClaims{
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				}
				return NewTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime)),
					sign(claims, jwt.SigningMethodHS512, []byte(testSecret))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing user id",
			setupFunc: func() (JWTService, string) {
				claims := jwtCustomClaims{
					RegisteredClaims: jwt.RegisteredClaims{
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				}
				return NewTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime)),
					sign(claims, jwt.SigningMethodHS256, []byte(testSecret))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing expiry",
			setupFunc: func() (JWTService, string) {
				claims := jwtCustomClaims{User: tokenUser{ID: userID}}
				return NewTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime)),
					sign(claims, jwt.SigningMethodHS256, []byte(testSecret))
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tt.setupFunc()
			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrAuthentication)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
		})
	}
}
