package storage

import (
	"context"

	"github.com/farhan/gametrack/internal/models"
)

type Storage interface {
	// Games
	CreateGame(ctx context.Context, game *models.Game) error
	GetGame(ctx context.Context, id string) (*models.Game, error)
	GetGameByIssue(ctx context.Context, issueID int64) (*models.Game, error)
	ListGames(ctx context.Context) ([]models.Game, error)
	DeleteGame(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
