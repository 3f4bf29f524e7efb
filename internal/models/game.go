package models

import "time"

// Game is a tracked game record. One game corresponds to one issue in the
// external tracker; the issue id doubles as the idempotency key for
// webhook redeliveries.
type Game struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	IssueID   int64             `json:"issue_id"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
