package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test_signing_secret")

func TestVerifyRoundtrip(t *testing.T) {
	req := require.New(t)

	raw, err := Generate("user-42", testSecret, time.Hour)
	req.NoError(err)
	req.NotEmpty(raw)

	principal, err := Verify(raw, testSecret)
	req.NoError(err)
	req.Equal(Principal("user-42"), principal)
}

func TestVerifyRejects(t *testing.T) {
	valid, err := Generate("user-42", testSecret, time.Hour)
	require.NoError(t, err)

	expired, err := Generate("user-42", testSecret, -time.Minute)
	require.NoError(t, err)

	// Token signed with "none" must never validate, whatever it claims.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user-42"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		raw    string
		secret []byte
	}{
		{"missing token", "", testSecret},
		{"malformed token", "not.a.jwt", testSecret},
		{"wrong secret", valid, []byte("other_secret")},
		{"expired token", expired, testSecret},
		{"unsigned token", unsigned, testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			principal, err := Verify(tt.raw, tt.secret)
			req.ErrorIs(err, ErrUnauthorized)
			req.Empty(principal)
		})
	}
}

func TestVerifyRejectsTokenWithoutUser(t *testing.T) {
	req := require.New(t)

	raw, err := Generate("", testSecret, time.Hour)
	req.NoError(err)

	_, err = Verify(raw, testSecret)
	req.ErrorIs(err, ErrUnauthorized)
}

func TestFromHeader(t *testing.T) {
	req := require.New(t)
	req.Equal("abc.def.ghi", FromHeader("Bearer abc.def.ghi"))
	req.Equal("abc.def.ghi", FromHeader("abc.def.ghi"))
	req.Equal("", FromHeader(""))
}
