// Package token issues and verifies signed bearer tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/odyssey-erp/storefront/internal/platform/httpx"
)

// Claims is the identity payload embedded in every issued token.
type Claims struct {
	UserID int64
	Email  string
	Role   string
}

// signedClaims is the internal claims type used for JWT signing and parsing.
type signedClaims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Service signs and verifies tokens with a shared HMAC secret. Verification
// is stateless; nothing is persisted between calls.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService constructs a token service with the configured signing secret
// and token lifetime.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue produces a signed token string carrying the identity claims and an
// expiry derived from the configured TTL.
func (s *Service) Issue(claims Claims) (string, error) {
	now := s.now().UTC()
	sc := signedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sc).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature and expiry and returns the embedded
// claims. Any failure is a hard rejection mapped to ErrUnauthorized.
func (s *Service) Verify(raw string) (Claims, error) {
	var parsed signedClaims
	_, err := jwt.ParseWithClaims(raw, &parsed, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, fmt.Errorf("%w: token expired", httpx.ErrUnauthorized)
		}
		return Claims{}, fmt.Errorf("%w: invalid token", httpx.ErrUnauthorized)
	}
	return Claims{UserID: parsed.UserID, Email: parsed.Email, Role: parsed.Role}, nil
}
