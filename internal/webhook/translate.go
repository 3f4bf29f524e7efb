package webhook

import (
	"context"

	"github.com/farhan/gametrack/internal/models"
)

type ActionKind int

const (
	// ActionNone covers unknown webhook actions, redelivered "closed"
	// events, and deletes of games that no longer exist. None of these
	// are errors.
	ActionNone ActionKind = iota
	ActionCreate
	ActionDelete
)

// Action is the single domain mutation derived from a verified payload.
type Action struct {
	Kind    ActionKind
	Name    string // create: game name derived from the issue title
	IssueID int64  // create: issue reference and idempotency key
	GameID  string // delete: id of the game to remove
}

// GameStore is the storage subset the translator needs for lookups.
type GameStore interface {
	GetGameByIssue(ctx context.Context, issueID int64) (*models.Game, error)
}

// Translate maps a verified payload to at most one domain action.
// "closed" creates a game unless one already exists for the issue
// (webhook providers redeliver); "reopened" deletes the matching game if
// there is one. Anything else is a no-op.
func Translate(ctx context.Context, p *Payload, store GameStore) (Action, error) {
	switch p.Action {
	case "closed":
		existing, err := store.GetGameByIssue(ctx, p.Issue.ID)
		if err != nil {
			return Action{}, err
		}
		if existing != nil {
			return Action{Kind: ActionNone}, nil
		}
		return Action{Kind: ActionCreate, Name: p.Issue.Title, IssueID: p.Issue.ID}, nil
	case "reopened":
		game, err := store.GetGameByIssue(ctx, p.Issue.ID)
		if err != nil {
			return Action{}, err
		}
		if game == nil {
			return Action{Kind: ActionNone}, nil
		}
		return Action{Kind: ActionDelete, GameID: game.ID}, nil
	default:
		return Action{Kind: ActionNone}, nil
	}
}
