package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

const prefix = "sha256="

// Sign computes the signature header value for a webhook body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return prefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a signature header against the raw body using a
// constant-time comparison.
func Verify(secret string, body []byte, signature string) bool {
	expected := Sign(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
