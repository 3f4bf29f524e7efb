package webhook

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/farhan/gametrack/internal/models"
)

type fakeGameStore struct {
	games map[int64]*models.Game
	err   error
}

func (f *fakeGameStore) GetGameByIssue(_ context.Context, issueID int64) (*models.Game, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.games[issueID], nil
}

func TestTranslateClosed(t *testing.T) {
	req := require.New(t)
	store := &fakeGameStore{games: map[int64]*models.Game{}}

	p := &Payload{Action: "closed", Issue: Issue{ID: 42, Title: "Foo"}}
	action, err := Translate(context.Background(), p, store)
	req.NoError(err)
	req.Equal(ActionCreate, action.Kind)
	req.Equal("Foo", action.Name)
	req.Equal(int64(42), action.IssueID)
}

func TestTranslateClosedRedelivery(t *testing.T) {
	req := require.New(t)
	store := &fakeGameStore{games: map[int64]*models.Game{
		42: {ID: "game_existing", Name: "Foo", IssueID: 42, CreatedAt: time.Now()},
	}}

	// A redelivered "closed" event must not create a second game.
	p := &Payload{Action: "closed", Issue: Issue{ID: 42, Title: "Foo"}}
	action, err := Translate(context.Background(), p, store)
	req.NoError(err)
	req.Equal(ActionNone, action.Kind)
}

func TestTranslateReopened(t *testing.T) {
	req := require.New(t)
	store := &fakeGameStore{games: map[int64]*models.Game{
		42: {ID: "game_abc", Name: "Foo", IssueID: 42},
	}}

	p := &Payload{Action: "reopened", Issue: Issue{ID: 42, Title: "Foo"}}
	action, err := Translate(context.Background(), p, store)
	req.NoError(err)
	req.Equal(ActionDelete, action.Kind)
	req.Equal("game_abc", action.GameID)
}

func TestTranslateReopenedMissingGame(t *testing.T) {
	req := require.New(t)
	store := &fakeGameStore{games: map[int64]*models.Game{}}

	p := &Payload{Action: "reopened", Issue: Issue{ID: 99, Title: "Gone"}}
	action, err := Translate(context.Background(), p, store)
	req.NoError(err)
	req.Equal(ActionNone, action.Kind)
}

func TestTranslateOtherActions(t *testing.T) {
	store := &fakeGameStore{games: map[int64]*models.Game{}}

	for _, action := range []string{"opened", "edited", "labeled", ""} {
		t.Run("action "+action, func(t *testing.T) {
			req := require.New(t)
			out, err := Translate(context.Background(), &Payload{Action: action}, store)
			req.NoError(err)
			req.Equal(ActionNone, out.Kind)
		})
	}
}

func TestTranslateStoreError(t *testing.T) {
	req := require.New(t)
	boom := errors.New("db down")
	store := &fakeGameStore{err: boom}

	_, err := Translate(context.Background(), &Payload{Action: "closed", Issue: Issue{ID: 1}}, store)
	req.ErrorIs(err, boom)
}
