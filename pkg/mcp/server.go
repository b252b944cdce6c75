package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/entrhq/autopilot/pkg/browser"
	"github.com/entrhq/autopilot/pkg/llm"
	"github.com/entrhq/autopilot/pkg/logging"
	"github.com/entrhq/autopilot/pkg/tools"
)

// HTTP surface of the transport.
const (
	StreamPath  = "/sse"
	MessagePath = "/message"

	// ConnectionIDParam carries the connection id on both endpoints.
	ConnectionIDParam = "connectionId"

	sseRetryMs      = 3000
	shutdownTimeout = 15 * time.Second
)

// Server binds the SSE transport to the protocol engine: the tool catalog,
// the agent loop, and the browser session registry.
type Server struct {
	registry *tools.Registry
	provider llm.Provider
	manager  *browser.Manager
	log      *logging.Logger

	extractSteps  int
	formFillSteps int

	httpServer *http.Server

	mu          sync.Mutex
	connections map[string]*Connection
	closeOnce   sync.Once
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithStepBudgets sets the agent step budgets for extraction and form-fill
// tasks.
func WithStepBudgets(extract, formFill int) ServerOption {
	return func(s *Server) {
		if extract > 0 {
			s.extractSteps = extract
		}
		if formFill > 0 {
			s.formFillSteps = formFill
		}
	}
}

// NewServer wires the transport over the given catalog, provider, and
// session registry.
func NewServer(addr string, registry *tools.Registry, provider llm.Provider, manager *browser.Manager, opts ...ServerOption) *Server {
	log, _ := logging.NewLogger("mcp")

	s := &Server{
		registry:      registry,
		provider:      provider,
		manager:       manager,
		log:           log,
		extractSteps:  10,
		formFillSteps: 20,
		connections:   make(map[string]*Connection),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(StreamPath, s.handleStream)
	mux.HandleFunc(MessagePath, s.handleMessagePost)
	s.httpServer = &http.Server{Addr: addr, Handler: mux}

	return s
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.log.Infof("transport listening on %s", s.httpServer.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Close()
	}
}

// Close shuts the HTTP server down and closes every live connection,
// triggering their bound-session cleanup.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		// Stream handlers only return once their connection closes, so the
		// connections must go down first or Shutdown waits out its full
		// timeout on every open stream.
		s.mu.Lock()
		conns := make([]*Connection, 0, len(s.connections))
		for _, c := range s.connections {
			conns = append(conns, c)
		}
		s.connections = make(map[string]*Connection)
		s.mu.Unlock()

		for _, c := range conns {
			c.Close()
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = s.httpServer.Shutdown(ctx)
	})
	return err
}

// connection returns the live connection with the given id.
func (s *Server) connection(id string) (*Connection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.connections[id]
	return c, ok
}

// removeConnection drops the id from the registry. The connection's own
// close hooks handle session cleanup.
func (s *Server) removeConnection(id string) {
	s.mu.Lock()
	delete(s.connections, id)
	s.mu.Unlock()
}

// handleStream serves the long-lived push stream. A supplied id belonging
// to a live connection is reused (reconnect); otherwise a fresh connection
// is minted. The first pushed event is always the endpoint event carrying
// the post path for this connection.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	id := r.URL.Query().Get(ConnectionIDParam)
	conn, reused := s.connection(id)
	if !reused {
		// Admission control happens before any allocation.
		if s.manager.AtCapacity() {
			http.Error(w, "session capacity exceeded", http.StatusServiceUnavailable)
			return
		}
		conn = newConnection(uuid.NewString())
		conn.OnClose(func() { s.removeConnection(conn.ID) })
		s.mu.Lock()
		s.connections[conn.ID] = conn
		s.mu.Unlock()
		s.log.Infof("connection %s opened", conn.ID)
	} else {
		s.log.Infof("connection %s stream reattached", conn.ID)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "retry: %d\n", sseRetryMs)
	fmt.Fprintf(w, "event: endpoint\ndata: %s?%s=%s\n\n", MessagePath, ConnectionIDParam, conn.ID)
	flusher.Flush()

	for {
		select {
		case msg, ok := <-conn.queue:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				s.log.Errorf("connection %s: marshal push message: %v", conn.ID, err)
				continue
			}
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
			flusher.Flush()

		case <-conn.Done():
			return

		case <-r.Context().Done():
			// Client disconnect closes the connection and, through its
			// close hooks, destroys any bound session.
			conn.Close()
			return
		}
	}
}

// handleMessagePost accepts one protocol message addressed to a live
// connection. The JSON-RPC response is pushed over the connection's stream.
func (s *Server) handleMessagePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get(ConnectionIDParam)
	conn, ok := s.connection(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, newErrorResponse(nil, CodeConnectionNotFound, fmt.Sprintf("connection not found: %s", id)))
		return
	}

	var msg JSONRPCMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, newErrorResponse(nil, CodeParseError, fmt.Sprintf("invalid JSON-RPC message: %v", err)))
		return
	}

	resp := s.handleMessage(r.Context(), conn, &msg)
	if resp != nil && msg.ID != nil {
		// Best effort once close has begun; no guaranteed delivery.
		if !conn.Send(resp) {
			s.log.Warnf("connection %s: response dropped (queue full or closing)", conn.ID)
		}
	}

	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
