package ports

import (
	"context"
	"dispatch-compliance-service/internal/domain"
)

// Contract for building a route between two places.
// Implementations must return jurisdiction codes from the rule table's key space;
// unknown codes are tolerated by the feasibility evaluator.
type RouteProvider interface {
	// Return the route and traversed jurisdictions from origin to destination.
	BuildRoute(ctx context.Context, origin string, destination string) (domain.Route, error)
}

// Optional extension of RouteProvider for providers backed by a fixed place catalog.
type PlaceCatalog interface {
	// Return the known places in display order.
	Places() []string
	// Return the jurisdiction code of a known place.
	JurisdictionOf(place string) (string, bool)
}
