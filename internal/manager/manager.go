// Package manager tracks concurrent pagination sessions. Sessions are fully
// independent of each other; the manager only provides lookup by message
// handle and collective teardown.
package manager

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/reactpage/internal/paginator"
	"github.com/rshade/reactpage/internal/transport"
)

// Manager owns a registry of live sessions keyed by their displayed message.
type Manager struct {
	log      zerolog.Logger
	group    errgroup.Group
	mu       sync.Mutex
	sessions map[transport.MessageID]*paginator.Session
}

// New creates an empty Manager.
func New(log zerolog.Logger) *Manager {
	return &Manager{
		log:      log,
		sessions: make(map[transport.MessageID]*paginator.Session),
	}
}

// Launch builds the session and registers it until it terminates. The build
// error, if any, is returned unchanged so callers can distinguish
// configuration from runtime failures.
func (m *Manager) Launch(ctx context.Context, s *paginator.Session) error {
	if err := s.Build(ctx); err != nil {
		return fmt.Errorf("launching session %s: %w", s.ID(), err)
	}

	id := s.MessageID()
	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.log.Debug().Str("session", s.ID()).Str("message", string(id)).Msg("session registered")

	m.group.Go(func() error {
		<-s.Done()
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		m.log.Debug().
			Str("session", s.ID()).
			Stringer("state", s.State()).
			Msg("session deregistered")
		return nil
	})
	return nil
}

// Get returns the live session displaying the given message, if any.
func (m *Manager) Get(id transport.MessageID) (*paginator.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StopAll stops every live session and waits for all of them to finish
// tearing down.
func (m *Manager) StopAll() error {
	m.mu.Lock()
	stopping := make([]*paginator.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		stopping = append(stopping, s)
	}
	m.mu.Unlock()

	for _, s := range stopping {
		s.Stop()
	}
	return m.group.Wait()
}
