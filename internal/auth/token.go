package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized is returned for any credential failure: missing token,
// bad signature, expired claims, or an unexpected signing algorithm.
var ErrUnauthorized = errors.New("unauthorized")

const issuer = "gametrack"

// Principal is the authenticated identity behind a request or connection.
type Principal string

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Generate mints a signed HS256 token for a user.
func Generate(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify parses and validates a token string and extracts the principal.
// It is used both for request auth and for authenticating a new
// subscriber connection.
func Verify(raw string, secret []byte) (Principal, error) {
	if raw == "" {
		return "", ErrUnauthorized
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", ErrUnauthorized
	}
	return Principal(claims.UserID), nil
}

// FromHeader extracts the bare token from an Authorization-style value.
// A value without the Bearer prefix is returned unchanged.
func FromHeader(v string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(v, prefix) {
		return strings.TrimPrefix(v, prefix)
	}
	return v
}
