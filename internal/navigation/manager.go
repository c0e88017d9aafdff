package navigation

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"travel-nav-service/internal/ports"
)

// Manager is the registry of live navigation sessions. One session exists
// per open navigation feature instance; removing a session tears down its
// watches and timers.
type Manager struct {
	geocoder *Geocoder
	locator  ports.DeviceLocator
	routes   *RouteCalculator
	notifier ports.Notifier
	cfg      SessionConfig
	log      *zap.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewManager(
	geocoder *Geocoder,
	locator ports.DeviceLocator,
	routes *RouteCalculator,
	notifier ports.Notifier,
	cfg SessionConfig,
	log *zap.Logger,
) *Manager {
	return &Manager{
		geocoder: geocoder,
		locator:  locator,
		routes:   routes,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create starts a fresh session.
func (m *Manager) Create() *Session {
	s := NewSession(uuid.New(), m.geocoder, m.locator, m.routes, m.notifier, m.cfg, m.log)
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove closes the session and drops it from the registry. Safe for
// unknown ids.
func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

// CloseAll tears down every session, used on server shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[uuid.UUID]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
