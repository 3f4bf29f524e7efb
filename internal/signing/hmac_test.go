package signing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	req := require.New(t)
	secret := "whsec_test"
	body := []byte(`{"action":"closed"}`)

	sig := Sign(secret, body)
	req.Contains(sig, "sha256=")
	req.True(Verify(secret, body, sig))
}

func TestVerifyRejects(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"action":"closed"}`)
	sig := Sign(secret, body)

	tests := []struct {
		name      string
		secret    string
		body      []byte
		signature string
	}{
		{"tampered body", secret, []byte(`{"action":"reopened"}`), sig},
		{"wrong secret", "whsec_other", body, sig},
		{"empty signature", secret, body, ""},
		{"garbage signature", secret, body, "sha256=deadbeef"},
		{"missing prefix", secret, body, sig[len("sha256="):]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.False(t, Verify(tt.secret, tt.body, tt.signature))
		})
	}
}
