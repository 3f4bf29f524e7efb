package api

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/farhan/gametrack/internal/auth"
	"github.com/farhan/gametrack/internal/config"
	"github.com/farhan/gametrack/internal/notify"
)

type SubscribeHandler struct {
	broker   *notify.Broker
	cfg      config.BrokerConfig
	secret   []byte
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewSubscribeHandler(broker *notify.Broker, cfg config.BrokerConfig, secret []byte, log zerolog.Logger) *SubscribeHandler {
	return &SubscribeHandler{
		broker: broker,
		cfg:    cfg,
		secret: secret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: log,
	}
}

// Subscribe upgrades the request to a websocket and authenticates the
// subscriber. The credential comes from the Authorization header when the
// client can send one, otherwise from the first frame after the upgrade.
// Only authenticated connections ever register with the broker.
func (h *SubscribeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	headerToken := auth.FromHeader(r.Header.Get("Authorization"))
	if headerToken != "" {
		if _, err := auth.Verify(headerToken, h.secret); err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := notify.NewConnection(ws, h.cfg, h.log)
	principal, err := conn.Authenticate(h.secret, headerToken)
	if err != nil {
		h.log.Warn().Str("conn_id", conn.ID).Msg("subscriber rejected")
		return
	}

	h.broker.Register(conn)
	h.log.Info().Str("conn_id", conn.ID).Str("user", string(principal)).Msg("subscriber connected")

	conn.Run()

	h.log.Info().Str("conn_id", conn.ID).Msg("subscriber disconnected")
}
