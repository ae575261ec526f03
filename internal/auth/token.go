// Package auth provides the signed identity token codec and password
// hashing used by the login flow and the request middleware.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tasktrackr/internal/domain"
)

var (
	// ErrTokenExpired indicates a well-formed token verified at or after
	// its expiry instant.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed indicates input that is not a token at all.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenInvalid covers every other verification failure, including a
	// bad signature. No claim from such a token is ever trusted.
	ErrTokenInvalid = errors.New("token invalid")
)

// Identity is the set of claims carried by a verified token.
type Identity struct {
	UserID   string
	Role     domain.Role
	Username string
}

type tokenClaims struct {
	Role     string `json:"role"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256-signed tokens. The secret and
// lifetime come from configuration loaded once at startup; the codec is
// immutable and safe for concurrent use. There is no revocation: an issued
// token stays valid for its full lifetime.
type TokenCodec struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewTokenCodec(secret string, lifetime time.Duration) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	if lifetime <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}
	return &TokenCodec{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

// Issue signs a token carrying the user's id, role and username, with
// issued-at now and expiry now plus the configured lifetime.
func (c *TokenCodec) Issue(userID string, role domain.Role, username string) (string, error) {
	now := c.now()
	claims := tokenClaims{
		Role:     string(role),
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// The boundary is inclusive: a token checked exactly at its expiry instant
// is already expired.
func (c *TokenCodec) Verify(tokenString string) (*Identity, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrTokenInvalid
		}
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return &Identity{
		UserID:   claims.Subject,
		Role:     role,
		Username: claims.Username,
	}, nil
}
