package webhook

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/farhan/gametrack/internal/config"
	"github.com/farhan/gametrack/internal/signing"
)

func TestParsePayload(t *testing.T) {
	req := require.New(t)

	p, err := ParsePayload([]byte(`{"action":"closed","issue":{"id":42,"number":7,"title":"Foo"},"sender":{"login":"owner"}}`))
	req.NoError(err)
	req.Equal("closed", p.Action)
	req.Equal(int64(42), p.Issue.ID)
	req.Equal("Foo", p.Issue.Title)
	req.Equal("owner", p.Sender.Login)
}

func TestParsePayloadMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"truncated json", `{"action":"closed"`},
		{"not json", `not json at all`},
		{"empty body", ``},
		{"missing action", `{"issue":{"id":1}}`},
		{"wrong types", `{"action":"closed","issue":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			p, err := ParsePayload([]byte(tt.body))
			req.ErrorIs(err, ErrMalformedPayload)
			req.Nil(p)
		})
	}
}

func TestVerifier(t *testing.T) {
	secret := "whsec_test"
	v := NewVerifier(config.WebhookConfig{
		Secret:         secret,
		AllowedSenders: []string{"owner"},
	})

	body := []byte(`{"action":"closed","issue":{"id":42,"title":"Foo"},"sender":{"login":"owner"}}`)
	p, err := ParsePayload(body)
	require.NoError(t, err)

	t.Run("valid signature from allowed sender", func(t *testing.T) {
		require.NoError(t, v.Verify(body, signing.Sign(secret, body), p))
	})

	t.Run("bad signature", func(t *testing.T) {
		err := v.Verify(body, signing.Sign("wrong", body), p)
		require.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("missing signature", func(t *testing.T) {
		require.ErrorIs(t, v.Verify(body, "", p), ErrBadSignature)
	})

	t.Run("unauthorized sender despite valid signature", func(t *testing.T) {
		stranger := []byte(`{"action":"closed","issue":{"id":42,"title":"Foo"},"sender":{"login":"stranger"}}`)
		sp, err := ParsePayload(stranger)
		require.NoError(t, err)
		require.ErrorIs(t, v.Verify(stranger, signing.Sign(secret, stranger), sp), ErrUnauthorizedSender)
	})
}
