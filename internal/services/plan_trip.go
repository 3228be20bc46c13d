package services

import (
	"context"
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/platform/obs"
	"dispatch-compliance-service/internal/ports"
	"errors"
	"fmt"
	"strings"
)

type PlanTripRequest struct {
	Origin      string
	Destination string
	Vehicle     domain.VehicleProfile
	// Routing preferences are forwarded to advanced providers only.
	AvoidTolls     bool
	PreferHighways bool
}

// Planned route plus its feasibility verdict.
type TripPlan struct {
	Route          domain.Route
	Result         domain.FeasibilityResult
	AdvancedChecks bool
}

// PlanTrip builds a route through provider and runs the feasibility check on
// its jurisdictions.
//
// Sessions without advanced trip checks get the basic check only: the hazmat
// flag is ignored and hazmat restrictions are not evaluated.
func PlanTrip(
	ctx context.Context,
	req PlanTripRequest,
	provider ports.RouteProvider,
	rules *domain.RuleTable,
	advisories domain.AdvisoryTable,
	ent domain.Entitlements,
) (_ *TripPlan, err error) {
	defer obs.Time(ctx, "trips.PlanTrip")(&err)

	if provider == nil {
		return nil, errors.New("plan trip: route provider is nil")
	}

	origin := strings.TrimSpace(req.Origin)
	dest := strings.TrimSpace(req.Destination)
	if origin == "" || dest == "" {
		return nil, fmt.Errorf("plan trip: origin and destination must be non-empty: %w", domain.ErrInvalidInput)
	}

	vehicle := req.Vehicle
	if !ent.TripPlannerAdvanced {
		vehicle.Hazmat = false
	}
	if err := vehicle.Validate(); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	route, err := provider.BuildRoute(ctx, origin, dest)
	if err != nil {
		return nil, fmt.Errorf("plan trip: build route %q -> %q: %w", origin, dest, err)
	}

	result, err := EvaluateFeasibility(rules, advisories, route.Jurisdictions, vehicle)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	return &TripPlan{
		Route:          route,
		Result:         result,
		AdvancedChecks: ent.TripPlannerAdvanced,
	}, nil
}
