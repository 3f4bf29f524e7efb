package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farhan/gametrack/internal/models"
	"github.com/farhan/gametrack/internal/storage"
)

type GameHandler struct {
	store storage.Storage
}

func NewGameHandler(store storage.Storage) *GameHandler {
	return &GameHandler{store: store}
}

func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.store.ListGames(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list games")
		return
	}
	if games == nil {
		games = []models.Game{}
	}
	writeJSON(w, http.StatusOK, games)
}

func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	game, err := h.store.GetGame(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get game")
		return
	}
	if game == nil {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	writeJSON(w, http.StatusOK, game)
}
