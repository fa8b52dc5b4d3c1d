package store

import (
	"sync"

	"ipfolio/internal/models"
)

// Sessions hands out one Session per organization. Injected into handlers
// rather than held as a package singleton so tests can build their own.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
	settings func(orgID string) models.AlertSettings
}

// NewSessions takes a loader for an organization's persisted alert
// settings, consulted once when the org's session is first touched.
func NewSessions(settings func(orgID string) models.AlertSettings) *Sessions {
	if settings == nil {
		settings = func(string) models.AlertSettings { return models.DefaultAlertSettings() }
	}
	return &Sessions{
		sessions: make(map[string]*Session),
		settings: settings,
	}
}

func (m *Sessions) ForOrg(orgID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[orgID]; ok {
		return s
	}
	s := NewSession(orgID, m.settings(orgID))
	m.sessions[orgID] = s
	return s
}

// Reset drops an organization's session, e.g. on logout.
func (m *Sessions) Reset(orgID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, orgID)
}
