package ports

import (
	"context"
	"dispatch-compliance-service/internal/domain"
)

// Port: per-session dashboard state (tier, current location, last route).
type SessionStore interface {
	// Return the session, or a fresh free-tier session when none exists.
	GetSession(ctx context.Context, sessionID string) (domain.Session, error)
	// Persist the session.
	SaveSession(ctx context.Context, session domain.Session) error
}
