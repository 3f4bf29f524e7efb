package api

import (
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/farhan/gametrack/internal/models"
	"github.com/farhan/gametrack/internal/notify"
	"github.com/farhan/gametrack/internal/storage"
	"github.com/farhan/gametrack/internal/webhook"
)

const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	store    storage.Storage
	broker   *notify.Broker
	verifier *webhook.Verifier
	log      zerolog.Logger
}

func NewWebhookHandler(store storage.Storage, broker *notify.Broker, verifier *webhook.Verifier, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		store:    store,
		broker:   broker,
		verifier: verifier,
		log:      log,
	}
}

// Receive handles one inbound tracker webhook: verify, translate, mutate,
// then broadcast. Nothing is mutated or published unless verification
// passed, and the payload is echoed back on success — no-op actions
// included.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable request body")
		return
	}

	payload, err := webhook.ParsePayload(body)
	if err != nil {
		h.log.Debug().Err(err).Msg("malformed webhook payload")
		writeError(w, http.StatusBadRequest, "malformed payload")
		return
	}

	if err := h.verifier.Verify(body, r.Header.Get(webhook.SignatureHeader), payload); err != nil {
		h.log.Warn().Err(err).Str("sender", payload.Sender.Login).Msg("webhook rejected")
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	action, err := webhook.Translate(r.Context(), payload, h.store)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to translate webhook")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	switch action.Kind {
	case webhook.ActionCreate:
		now := time.Now().UTC()
		game := &models.Game{
			ID:        models.NewID("game"),
			Name:      action.Name,
			IssueID:   action.IssueID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := h.store.CreateGame(r.Context(), game); err != nil {
			h.log.Error().Err(err).Int64("issue_id", action.IssueID).Msg("failed to create game")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		h.broker.Publish(notify.GameCreated(game))
		h.log.Info().Str("game_id", game.ID).Str("name", game.Name).Msg("game created")

	case webhook.ActionDelete:
		if err := h.store.DeleteGame(r.Context(), action.GameID); err != nil {
			h.log.Error().Err(err).Str("game_id", action.GameID).Msg("failed to delete game")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		h.broker.Publish(notify.GameDeleted(action.GameID))
		h.log.Info().Str("game_id", action.GameID).Msg("game deleted")
	}

	writeJSON(w, http.StatusOK, payload)
}
