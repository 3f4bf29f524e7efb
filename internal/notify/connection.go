package notify

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/farhan/gametrack/internal/auth"
	"github.com/farhan/gametrack/internal/config"
	"github.com/farhan/gametrack/internal/models"
)

type State int32

const (
	StateConnecting State = iota
	StateAuthenticating
	StateOpen
	StateClosing
	StateClosed
	StateUnauthorized
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	case StateUnauthorized:
		return "unauthorized"
	}
	return "unknown"
}

// wire is the slice of *websocket.Conn the connection relies on, kept
// narrow so tests can stand in a fake peer.
type wire interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
	Close() error
}

// Connection is one authenticated, long-lived channel to a subscriber.
// It owns its bounded outbound queue and keep-alive timer; the broker
// only ever touches it through Enqueue and Close.
type Connection struct {
	ID string

	ws        wire
	principal auth.Principal
	queue     chan Message
	state     atomic.Int32
	done      chan struct{}
	closeOnce sync.Once
	broker    *Broker

	keepAlive    time.Duration
	writeTimeout time.Duration
	authTimeout  time.Duration

	log zerolog.Logger
}

func NewConnection(ws *websocket.Conn, cfg config.BrokerConfig, log zerolog.Logger) *Connection {
	return newConnection(ws, cfg, log)
}

func newConnection(ws wire, cfg config.BrokerConfig, log zerolog.Logger) *Connection {
	id := models.NewID("conn")
	return &Connection{
		ID:           id,
		ws:           ws,
		queue:        make(chan Message, cfg.QueueSize),
		done:         make(chan struct{}),
		keepAlive:    cfg.KeepAliveInterval,
		writeTimeout: cfg.WriteTimeout,
		authTimeout:  cfg.AuthTimeout,
		log:          log.With().Str("conn_id", id).Logger(),
	}
}

func (c *Connection) State() State {
	return State(c.state.Load())
}

func (c *Connection) setState(s State) {
	c.state.Store(int32(s))
}

func (c *Connection) Principal() auth.Principal {
	return c.principal
}

type authFrame struct {
	Authorization string `json:"authorization"`
}

// Authenticate runs the connect-time credential check. The token comes
// either from the upgrade request (headerToken) or, when that is empty,
// from the first frame the peer sends: {"authorization": "Bearer <jwt>"}.
// On failure the socket is closed with a policy violation and the
// connection never reaches Open.
func (c *Connection) Authenticate(secret []byte, headerToken string) (auth.Principal, error) {
	c.setState(StateAuthenticating)

	token := headerToken
	if token == "" {
		c.ws.SetReadDeadline(time.Now().Add(c.authTimeout))
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			c.reject()
			return "", auth.ErrUnauthorized
		}
		var frame authFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.reject()
			return "", auth.ErrUnauthorized
		}
		token = frame.Authorization
	}

	principal, err := auth.Verify(auth.FromHeader(token), secret)
	if err != nil {
		c.reject()
		return "", err
	}

	c.principal = principal
	c.setState(StateOpen)
	return principal, nil
}

func (c *Connection) reject() {
	c.setState(StateUnauthorized)
	deadline := time.Now().Add(time.Second)
	c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthorized"), deadline)
	c.ws.Close()
}

// Enqueue offers a message to the outbound queue without blocking.
// It reports false when the connection is not open or the queue is full;
// the broker decides what to do with such a subscriber.
func (c *Connection) Enqueue(msg Message) bool {
	if c.State() != StateOpen {
		return false
	}
	select {
	case c.queue <- msg:
		return true
	default:
		return false
	}
}

// Run drives the open connection: a write pump forwarding queued messages
// in order and pinging the peer every keep-alive interval, and a read
// pump watching for pongs and peer disconnect. It blocks until the
// connection closes.
func (c *Connection) Run() {
	pongWait := 2 * c.keepAlive
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.writePump()
	c.readPump()
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.queue:
			data, err := json.Marshal(msg)
			if err != nil {
				c.log.Error().Err(err).Msg("failed to encode notification")
				continue
			}
			c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Debug().Err(err).Msg("write failed, closing connection")
				c.Close()
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(c.writeTimeout)
			if err := c.ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				c.log.Debug().Err(err).Msg("keep-alive failed, closing connection")
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Connection) readPump() {
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			c.Close()
			return
		}
	}
}

// Close tears the connection down: deregisters from the broker, stops
// both pumps, discards anything still queued, and closes the socket.
// Safe to call any number of times from any goroutine.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.setState(StateClosing)
		if c.broker != nil {
			c.broker.Deregister(c.ID)
		}
		close(c.done)
		for {
			select {
			case <-c.queue:
				continue
			default:
			}
			break
		}
		c.ws.Close()
		c.setState(StateClosed)
	})
}
