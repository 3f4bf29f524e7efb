package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/farhan/gametrack/internal/config"
	"github.com/farhan/gametrack/internal/notify"
	"github.com/farhan/gametrack/internal/storage"
	"github.com/farhan/gametrack/internal/webhook"
)

type Server struct {
	cfg    *config.Config
	store  storage.Storage
	broker *notify.Broker
	router *chi.Mux
	log    zerolog.Logger
	http   *http.Server
}

func NewServer(cfg *config.Config, store storage.Storage, broker *notify.Broker, log zerolog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		broker: broker,
		log:    log,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware(s.log))

	authSecret := []byte(s.cfg.Auth.Secret)
	verifier := webhook.NewVerifier(s.cfg.Webhook)

	webhookHandler := NewWebhookHandler(s.store, s.broker, verifier, s.log)
	subscribeHandler := NewSubscribeHandler(s.broker, s.cfg.Broker, authSecret, s.log)
	gameHandler := NewGameHandler(s.store)

	// Health check — no auth
	r.Get("/health", s.health)

	// Tracker webhook — authenticated by signature, not bearer token
	r.Post("/webhook", webhookHandler.Receive)

	// Live notification stream — authenticates during the handshake
	r.Get("/subscribe", subscribeHandler.Subscribe)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(authSecret))

		r.Get("/games", gameHandler.List)
		r.Get("/games/{id}", gameHandler.Get)
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"service":     "gametrack",
		"subscribers": s.broker.Count(),
	})
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.http = &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: s.cfg.Server.ReadTimeout,
		// No WriteTimeout: it would sever long-lived subscriber sockets.
	}

	s.log.Info().Str("addr", addr).Msg("starting HTTP server")
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}
