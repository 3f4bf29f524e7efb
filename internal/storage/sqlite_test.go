package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/farhan/gametrack/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "gametrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestGameRoundtrip(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	game := &models.Game{
		ID:        models.NewID("game"),
		Name:      "Foo",
		IssueID:   42,
		Metadata:  map[string]string{"source": "tracker"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	req.NoError(store.CreateGame(ctx, game))

	got, err := store.GetGame(ctx, game.ID)
	req.NoError(err)
	req.NotNil(got)
	req.Equal(game.Name, got.Name)
	req.Equal(game.IssueID, got.IssueID)
	req.Equal("tracker", got.Metadata["source"])

	byIssue, err := store.GetGameByIssue(ctx, 42)
	req.NoError(err)
	req.NotNil(byIssue)
	req.Equal(game.ID, byIssue.ID)

	games, err := store.ListGames(ctx)
	req.NoError(err)
	req.Len(games, 1)

	req.NoError(store.DeleteGame(ctx, game.ID))
	gone, err := store.GetGame(ctx, game.ID)
	req.NoError(err)
	req.Nil(gone)
}

func TestGetMissingGame(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	ctx := context.Background()

	game, err := store.GetGame(ctx, "game_missing")
	req.NoError(err)
	req.Nil(game)

	byIssue, err := store.GetGameByIssue(ctx, 999)
	req.NoError(err)
	req.Nil(byIssue)

	// Deleting a game that does not exist is a no-op.
	req.NoError(store.DeleteGame(ctx, "game_missing"))
}

func TestDuplicateIssueRejected(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	first := &models.Game{ID: models.NewID("game"), Name: "Foo", IssueID: 42, CreatedAt: now, UpdatedAt: now}
	req.NoError(store.CreateGame(ctx, first))

	second := &models.Game{ID: models.NewID("game"), Name: "Foo", IssueID: 42, CreatedAt: now, UpdatedAt: now}
	req.Error(store.CreateGame(ctx, second))
}
