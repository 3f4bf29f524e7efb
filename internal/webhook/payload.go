package webhook

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/farhan/gametrack/internal/config"
	"github.com/farhan/gametrack/internal/signing"
)

var (
	ErrMalformedPayload   = errors.New("malformed payload")
	ErrBadSignature       = errors.New("bad signature")
	ErrUnauthorizedSender = errors.New("unauthorized sender")
)

// SignatureHeader carries the HMAC-SHA256 signature of the raw request body.
const SignatureHeader = "X-Hub-Signature-256"

// Payload is the issue-tracker webhook body. Only the fields the service
// acts on are decoded; everything else is echoed back untouched.
type Payload struct {
	Action string `json:"action"`
	Issue  Issue  `json:"issue"`
	Sender Sender `json:"sender"`
}

type Issue struct {
	ID     int64  `json:"id"`
	Number int    `json:"number"`
	Title  string `json:"title"`
}

type Sender struct {
	Login string `json:"login"`
}

// ParsePayload decodes a webhook body. Decode failures are reported as
// ErrMalformedPayload so the handler can answer with a client error
// instead of dying.
func ParsePayload(body []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if p.Action == "" {
		return nil, fmt.Errorf("%w: missing action", ErrMalformedPayload)
	}
	return &p, nil
}

// Verifier checks that a webhook body was produced by the trusted source
// and that the acting party is on the allow-list. A valid signature alone
// is not enough.
type Verifier struct {
	secret  string
	allowed map[string]struct{}
}

func NewVerifier(cfg config.WebhookConfig) *Verifier {
	allowed := make(map[string]struct{}, len(cfg.AllowedSenders))
	for _, login := range cfg.AllowedSenders {
		allowed[login] = struct{}{}
	}
	return &Verifier{secret: cfg.Secret, allowed: allowed}
}

func (v *Verifier) Verify(body []byte, signature string, p *Payload) error {
	if !signing.Verify(v.secret, body, signature) {
		return ErrBadSignature
	}
	if _, ok := v.allowed[p.Sender.Login]; !ok {
		return ErrUnauthorizedSender
	}
	return nil
}
