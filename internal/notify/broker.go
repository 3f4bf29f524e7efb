package notify

import (
	"sync"

	"github.com/rs/zerolog"
)

// Broker is the single fan-out point for domain events. It owns the
// registry of live subscriber connections; publishing never blocks on a
// subscriber and a failing subscriber never affects the others.
type Broker struct {
	mu    sync.RWMutex
	conns map[string]*Connection
	log   zerolog.Logger
}

func NewBroker(log zerolog.Logger) *Broker {
	return &Broker{
		conns: make(map[string]*Connection),
		log:   log,
	}
}

// Register adds an authenticated connection to the live set. Registering
// the same connection twice is a no-op.
func (b *Broker) Register(c *Connection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.conns[c.ID]; ok {
		return
	}
	c.broker = b
	b.conns[c.ID] = c
	b.log.Debug().Str("conn_id", c.ID).Int("subscribers", len(b.conns)).Msg("subscriber registered")
}

// Deregister removes a connection from the live set. Unknown ids and
// repeated calls are no-ops.
func (b *Broker) Deregister(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.conns[id]; !ok {
		return
	}
	delete(b.conns, id)
	b.log.Debug().Str("conn_id", id).Int("subscribers", len(b.conns)).Msg("subscriber deregistered")
}

// Publish delivers a message to every connection registered at call time.
// The registry lock is released before any enqueue, so a slow subscriber
// never stalls registration or other publishers. A subscriber whose queue
// cannot accept the message is dropped and closed.
func (b *Broker) Publish(msg Message) {
	b.mu.RLock()
	snapshot := make([]*Connection, 0, len(b.conns))
	for _, c := range b.conns {
		snapshot = append(snapshot, c)
	}
	b.mu.RUnlock()

	for _, c := range snapshot {
		if !c.Enqueue(msg) {
			b.log.Warn().Str("conn_id", c.ID).Str("type", msg.Type).Msg("dropping slow subscriber")
			c.Close()
		}
	}
}

// Count reports the number of registered connections.
func (b *Broker) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.conns)
}

// Close shuts down every registered connection. Used on server shutdown.
func (b *Broker) Close() {
	b.mu.RLock()
	snapshot := make([]*Connection, 0, len(b.conns))
	for _, c := range b.conns {
		snapshot = append(snapshot, c)
	}
	b.mu.RUnlock()

	for _, c := range snapshot {
		c.Close()
	}
}
