package auth

import "time"

// NewTestJWTService builds an HMAC service with a fixed lifetime and clock.
func NewTestJWTService(secret string, lifetime time.Duration, timeFunc func() time.Time) JWTService {
	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      timeFunc,
	}
}
