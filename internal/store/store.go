package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ipfolio/internal/alerts"
	"ipfolio/internal/models"
)

var ErrNotFound = errors.New("not found")

// ConflictError is returned when a delete is blocked by referencing records.
type ConflictError struct {
	Kind          string
	BlockingCount int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot delete: %d %s still reference this record", e.BlockingCount, e.Kind)
}

// Session owns one organization's working set: clients, assets, matters,
// tasks, the current alert settings and the derived alert list. Every
// asset/matter mutation and settings save recomputes the derived alerts
// under the same lock, so a reader never observes entities newer than the
// alerts computed from them.
type Session struct {
	mu       sync.Mutex
	orgID    string
	clients  []models.Client
	assets   []models.Asset
	matters  []models.Matter
	tasks    []models.Task
	settings models.AlertSettings
	derived  []models.DerivedAlert
	now      func() time.Time
}

func NewSession(orgID string, settings models.AlertSettings) *Session {
	return &Session{
		orgID:    orgID,
		settings: settings,
		now:      time.Now,
	}
}

// recompute must be called with the lock held.
func (s *Session) recompute() {
	s.derived = alerts.Derive(s.assets, s.matters, s.settings, s.now())
}

// UpdateSettings replaces the session's alert settings and recomputes the
// derived alerts from the existing entity snapshots.
func (s *Session) UpdateSettings(settings models.AlertSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.recompute()
}

func (s *Session) Settings() models.AlertSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// DerivedAlerts returns the current derived alert list.
func (s *Session) DerivedAlerts() []models.DerivedAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DerivedAlert, len(s.derived))
	copy(out, s.derived)
	return out
}

// DismissDerived hides a system alert until the next recompute brings it
// back. System alerts have no durable dismissal.
func (s *Session) DismissDerived(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.derived {
		if s.derived[i].ID == id {
			s.derived = append(s.derived[:i], s.derived[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Clients

func (s *Session) CreateClient(c models.Client) models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = uuid.New().String()
	c.CreatedAt = s.now()
	s.clients = append(s.clients, c)
	return c
}

func (s *Session) ListClients() []models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Client, len(s.clients))
	copy(out, s.clients)
	return out
}

func (s *Session) UpdateClient(c models.Client) (models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.clients {
		if s.clients[i].ID == c.ID {
			c.CreatedAt = s.clients[i].CreatedAt
			s.clients[i] = c
			return c, nil
		}
	}
	return models.Client{}, ErrNotFound
}

// DeleteClient refuses while assets or matters still reference the client.
func (s *Session) DeleteClient(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blocking := 0
	for _, a := range s.assets {
		if a.ClientID == id {
			blocking++
		}
	}
	if blocking > 0 {
		return &ConflictError{Kind: "assets", BlockingCount: blocking}
	}
	for _, m := range s.matters {
		if m.ClientID == id {
			blocking++
		}
	}
	if blocking > 0 {
		return &ConflictError{Kind: "matters", BlockingCount: blocking}
	}

	for i := range s.clients {
		if s.clients[i].ID == id {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Assets

func (s *Session) CreateAsset(a models.Asset) models.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = uuid.New().String()
	a.CreatedAt = s.now()
	s.assets = append(s.assets, a)
	s.recompute()
	return a
}

func (s *Session) ListAssets() []models.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Asset, len(s.assets))
	copy(out, s.assets)
	return out
}

func (s *Session) GetAsset(id string) (models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.assets {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Asset{}, ErrNotFound
}

func (s *Session) UpdateAsset(a models.Asset) (models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.assets {
		if s.assets[i].ID == a.ID {
			a.CreatedAt = s.assets[i].CreatedAt
			s.assets[i] = a
			s.recompute()
			return a, nil
		}
	}
	return models.Asset{}, ErrNotFound
}

// DeleteAsset refuses while matters still reference the asset.
func (s *Session) DeleteAsset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blocking := 0
	for _, m := range s.matters {
		if m.AssetID == id {
			blocking++
		}
	}
	if blocking > 0 {
		return &ConflictError{Kind: "matters", BlockingCount: blocking}
	}

	for i := range s.assets {
		if s.assets[i].ID == id {
			s.assets = append(s.assets[:i], s.assets[i+1:]...)
			s.recompute()
			return nil
		}
	}
	return ErrNotFound
}

// Matters

func (s *Session) CreateMatter(m models.Matter) models.Matter {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = uuid.New().String()
	m.LastUpdated = s.now()
	s.matters = append(s.matters, m)
	s.recompute()
	return m
}

func (s *Session) ListMatters() []models.Matter {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Matter, len(s.matters))
	copy(out, s.matters)
	return out
}

func (s *Session) UpdateMatter(m models.Matter) (models.Matter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.matters {
		if s.matters[i].ID == m.ID {
			m.LastUpdated = s.now()
			s.matters[i] = m
			s.recompute()
			return m, nil
		}
	}
	return models.Matter{}, ErrNotFound
}

func (s *Session) DeleteMatter(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.matters {
		if s.matters[i].ID == id {
			s.matters = append(s.matters[:i], s.matters[i+1:]...)
			s.recompute()
			return nil
		}
	}
	return ErrNotFound
}

// Tasks

func (s *Session) CreateTask(t models.Task) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = uuid.New().String()
	t.CreatedAt = s.now()
	s.tasks = append(s.tasks, t)
	return t
}

func (s *Session) ListTasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Session) UpdateTask(t models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == t.ID {
			t.CreatedAt = s.tasks[i].CreatedAt
			s.tasks[i] = t
			return t, nil
		}
	}
	return models.Task{}, ErrNotFound
}

func (s *Session) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
