package domain

// Per-session dashboard state owned by the presentation layer.
// Documents live in the DocumentRepository under the same session ID.
type Session struct {
	ID              string
	Tier            Tier
	CurrentLocation string
	LastRoute       *Route
}

// NewSession returns a free-tier session with no route.
func NewSession(id string) Session {
	return Session{ID: id, Tier: TierFree}
}
