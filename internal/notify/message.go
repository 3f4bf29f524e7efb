package notify

import "github.com/farhan/gametrack/internal/models"

const (
	TypeGameCreated = "game_created"
	TypeGameDeleted = "game_deleted"
)

// Message is one domain event pushed to subscribers. Exactly one of Game
// or ID is set depending on Type.
type Message struct {
	Type string       `json:"type"`
	Game *models.Game `json:"game,omitempty"`
	ID   string       `json:"id,omitempty"`
}

func GameCreated(game *models.Game) Message {
	return Message{Type: TypeGameCreated, Game: game}
}

func GameDeleted(id string) Message {
	return Message{Type: TypeGameDeleted, ID: id}
}
