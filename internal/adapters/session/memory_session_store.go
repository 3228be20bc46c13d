package session

import (
	"context"
	"dispatch-compliance-service/internal/domain"
	"slices"
	"sync"
)

// In-memory SessionStore. Sessions live for the lifetime of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]domain.Session)}
}

func (m *MemoryStore) GetSession(_ context.Context, sessionID string) (domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return domain.NewSession(sessionID), nil
	}
	return cloneSession(s), nil
}

func (m *MemoryStore) SaveSession(_ context.Context, s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ID] = cloneSession(s)
	return nil
}

func cloneSession(s domain.Session) domain.Session {
	if s.LastRoute == nil {
		return s
	}
	r := *s.LastRoute
	r.Jurisdictions = slices.Clone(r.Jurisdictions)
	r.Points = slices.Clone(r.Points)
	s.LastRoute = &r
	return s
}
