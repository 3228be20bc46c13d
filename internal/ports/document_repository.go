package ports

import (
	"context"
	"dispatch-compliance-service/internal/domain"
	"time"

	"github.com/google/uuid"
)

// Port: session-scoped document storage.
// Records returned are copies; mutating them does not change stored state.
type DocumentRepository interface {
	// Return the session's documents in insertion order.
	ListDocuments(ctx context.Context, sessionID string) ([]domain.DocumentRecord, error)
	// Append documents to the session.
	AddDocuments(ctx context.Context, sessionID string, docs []domain.DocumentRecord) error
	// Return one document or domain.ErrNotFound.
	GetDocument(ctx context.Context, sessionID string, id uuid.UUID) (domain.DocumentRecord, error)
	// Set the expiry of one document or return domain.ErrNotFound.
	SetExpiry(ctx context.Context, sessionID string, id uuid.UUID, expiry time.Time) error
	// Remove every document of the session.
	ClearDocuments(ctx context.Context, sessionID string) error
}
