package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hyeonwook/anonboard/internal/model"
)

// Manager holds the process-wide view of who is signed in. It hydrates from
// the Store at startup, pushes changes back to it, and optionally polls the
// store so a sign-in or sign-out made by another process is picked up here.
// Concurrent writers are resolved last-write-wins.
type Manager struct {
	store  Store
	logger *slog.Logger

	mu      sync.RWMutex
	current *model.Session
	loading bool

	// onSignOut runs after a sign-out clears state, for callers that need to
	// navigate somewhere afterwards.
	onSignOut func()
}

// NewManager creates a Manager in the loading state. Call Start to hydrate.
func NewManager(store Store, logger *slog.Logger) *Manager {
	return &Manager{store: store, logger: logger, loading: true}
}

// OnSignOut registers a hook invoked after SignOut completes.
func (m *Manager) OnSignOut(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSignOut = fn
}

// Start hydrates the current session from the store. Until Start returns,
// Loading reports true and Current reports no session; callers that gate on
// authentication must treat the loading state as "not yet known", not as
// signed out.
func (m *Manager) Start() {
	s := m.store.Load()

	m.mu.Lock()
	m.current = s
	m.loading = false
	m.mu.Unlock()

	if s != nil {
		m.logger.Info("session restored", slog.String("userID", s.UserID))
	}
}

// Loading reports whether hydration has finished.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Current returns the signed-in session, or nil.
func (m *Manager) Current() *model.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// SignIn installs the session and persists it.
func (m *Manager) SignIn(s *model.Session) {
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	m.store.Save(s)
}

// SignOut clears the session everywhere and runs the registered hook.
func (m *Manager) SignOut() {
	m.mu.Lock()
	m.current = nil
	hook := m.onSignOut
	m.mu.Unlock()

	m.store.Clear()
	if hook != nil {
		hook()
	}
}

// Watch polls the store until ctx is cancelled and applies external changes:
// a session appearing, changing, or disappearing in the store replaces the
// in-memory one. The sign-out hook does not run for external sign-outs.
func (m *Manager) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.applyExternal(m.store.Load())
		}
	}
}

func (m *Manager) applyExternal(stored *model.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case stored == nil && m.current != nil:
		m.logger.Info("session ended externally", slog.String("userID", m.current.UserID))
		m.current = nil
	case stored != nil && (m.current == nil || stored.UserID != m.current.UserID || !stored.LoggedInAt.Equal(m.current.LoggedInAt)):
		m.logger.Info("session updated externally", slog.String("userID", stored.UserID))
		m.current = stored
	}
}
