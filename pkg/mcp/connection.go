package mcp

import (
	"sync"
	"time"
)

// queueSize bounds pending push messages per connection. Sends beyond a full
// queue are dropped; delivery is best effort once close has begun anyway.
const queueSize = 100

// Connection is the lifecycle object for one remote caller: a push queue
// drained by the SSE stream, an optional bound browser session, and a
// one-shot list of close hooks.
type Connection struct {
	ID        string
	CreatedAt time.Time

	queue chan *JSONRPCMessage
	done  chan struct{}

	mu           sync.Mutex
	boundSession string
	onClose      []func()
	closeOnce    sync.Once
}

func newConnection(id string) *Connection {
	return &Connection{
		ID:        id,
		CreatedAt: time.Now(),
		queue:     make(chan *JSONRPCMessage, queueSize),
		done:      make(chan struct{}),
	}
}

// Send queues a message for the push stream. Returns false when the queue is
// full or the connection is closing.
func (c *Connection) Send(msg *JSONRPCMessage) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.queue <- msg:
		return true
	default:
		return false
	}
}

// OnClose appends a hook to run when the connection closes. Hooks added
// after close run immediately.
func (c *Connection) OnClose(hook func()) {
	c.mu.Lock()
	select {
	case <-c.done:
		c.mu.Unlock()
		hook()
		return
	default:
	}
	c.onClose = append(c.onClose, hook)
	c.mu.Unlock()
}

// BindSession ties a browser session to this connection so close can
// destroy it. Only the first binding sticks; a connection owns at most one
// session.
func (c *Connection) BindSession(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.boundSession != "" {
		return false
	}
	c.boundSession = sessionID
	return true
}

// BoundSession returns the bound session id, or "".
func (c *Connection) BoundSession() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.boundSession
}

// Close runs the close hooks exactly once, no matter which side initiated
// the close or how many times it is called.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		hooks := c.onClose
		c.onClose = nil
		c.mu.Unlock()

		for _, hook := range hooks {
			hook()
		}
	})
}

// Done exposes the close signal for stream loops.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}
