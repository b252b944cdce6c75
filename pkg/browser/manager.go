package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/entrhq/autopilot/pkg/logging"
)

// drainConcurrency bounds how many sessions close in parallel during a
// full registry drain.
const drainConcurrency = 4

// Manager is the browser session registry. It owns the session map and is
// the single mutation entry point for it: create and destroy are atomic with
// respect to every other operation reading the same id, so no caller can
// ever observe a half-destroyed session.
type Manager struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	launcher    Launcher
	maxSessions int
	navTimeout  time.Duration
	log         *logging.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxSessions sets the admission ceiling for live sessions.
func WithMaxSessions(max int) Option {
	return func(m *Manager) {
		m.maxSessions = max
	}
}

// WithNavigationTimeout sets the deadline raced against navigations and
// navigation-triggering clicks.
func WithNavigationTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.navTimeout = d
	}
}

// NewManager creates a registry backed by the given launcher. Pass a
// playwright launcher in production; tests inject stubs.
func NewManager(launcher Launcher, opts ...Option) *Manager {
	log, _ := logging.NewLogger("browser")

	m := &Manager{
		sessions:    make(map[string]*Session),
		launcher:    launcher,
		maxSessions: DefaultMaxSessions,
		navTimeout:  DefaultNavigationTimeout,
		log:         log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create launches a new isolated browser context and registers it under a
// fresh session id. At the admission ceiling it returns ErrCapacityExceeded
// without touching the registry; callers should treat that as a retryable
// backoff condition, not a crash.
func (m *Manager) Create() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.maxSessions {
		return "", ErrCapacityExceeded
	}

	ctx, err := m.launcher.NewContext()
	if err != nil {
		return "", &InfrastructureError{Op: "create session", Err: err}
	}

	id := uuid.NewString()
	m.sessions[id] = newSession(id, ctx, m.navTimeout)
	m.log.Infof("session %s created (%d/%d live)", id, len(m.sessions), m.maxSessions)
	return id, nil
}

// Get returns the live session for id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, nil
}

// GetOrCreatePage returns the page for (sessionID, pageID), creating the
// page lazily. An empty pageID addresses the session's implicit page.
func (m *Manager) GetOrCreatePage(sessionID, pageID string) (PageHandle, error) {
	session, err := m.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Page(pageID)
}

// Destroy closes all of a session's pages, then its context, then removes
// the id from the registry. It is idempotent: destroying an unknown or
// already-destroyed session is a no-op, because shutdown paths may race
// with client-initiated cleanup.
func (m *Manager) Destroy(id string) {
	m.mu.Lock()
	session, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return
	}

	// Handles close outside the lock; the id is already unreachable.
	for _, err := range session.destroy() {
		m.log.Warnf("session %s close: %v", id, err)
	}
	m.log.Infof("session %s destroyed", id)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// MaxSessions returns the admission ceiling.
func (m *Manager) MaxSessions() int {
	return m.maxSessions
}

// AtCapacity reports whether the registry would reject a Create right now.
func (m *Manager) AtCapacity() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions) >= m.maxSessions
}

// List returns a snapshot of every live session.
func (m *Manager) List() []SessionInfo {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	infos := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, SessionInfo{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			Pages:     s.PageCount(),
		})
	}
	return infos
}

// DestroyAll drains the full registry with bounded concurrency. Individual
// close failures are logged, never allowed to abort the drain.
func (m *Manager) DestroyAll(ctx context.Context) {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(drainConcurrency)
	for id, session := range sessions {
		id, session := id, session
		g.Go(func() error {
			for _, err := range session.destroy() {
				m.log.Warnf("drain: session %s close: %v", id, err)
			}
			return nil
		})
	}
	g.Wait()

	if len(sessions) > 0 {
		m.log.Infof("drained %d sessions", len(sessions))
	}
}

// Shutdown drains all sessions and stops the underlying browser runtime.
func (m *Manager) Shutdown(ctx context.Context) {
	m.DestroyAll(ctx)
	if err := m.launcher.Close(); err != nil {
		m.log.Warnf("launcher close: %v", err)
	}
}
