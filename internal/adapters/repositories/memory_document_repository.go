package repositories

import (
	"context"
	"dispatch-compliance-service/internal/domain"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// In-memory implementation of the DocumentRepository port.
// Documents are held per session and copied on every read and write.
type MemoryDocumentRepository struct {
	mu       sync.RWMutex
	sessions map[string][]domain.DocumentRecord
}

func NewMemoryDocumentRepository() *MemoryDocumentRepository {
	return &MemoryDocumentRepository{sessions: make(map[string][]domain.DocumentRecord)}
}

func (m *MemoryDocumentRepository) ListDocuments(_ context.Context, sessionID string) ([]domain.DocumentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := m.sessions[sessionID]
	out := make([]domain.DocumentRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Clone())
	}
	return out, nil
}

func (m *MemoryDocumentRepository) AddDocuments(_ context.Context, sessionID string, docs []domain.DocumentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range docs {
		m.sessions[sessionID] = append(m.sessions[sessionID], d.Clone())
	}
	return nil
}

func (m *MemoryDocumentRepository) GetDocument(_ context.Context, sessionID string, id uuid.UUID) (domain.DocumentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, d := range m.sessions[sessionID] {
		if d.ID == id {
			return d.Clone(), nil
		}
	}
	return domain.DocumentRecord{}, fmt.Errorf("get document %s: %w", id, domain.ErrNotFound)
}

func (m *MemoryDocumentRepository) SetExpiry(_ context.Context, sessionID string, id uuid.UUID, expiry time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.sessions[sessionID]
	for i := range docs {
		if docs[i].ID == id {
			exp := domain.DateOf(expiry)
			docs[i].ExpiryDate = &exp
			return nil
		}
	}
	return fmt.Errorf("set expiry %s: %w", id, domain.ErrNotFound)
}

func (m *MemoryDocumentRepository) ClearDocuments(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}
