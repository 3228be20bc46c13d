package routing

import (
	"context"
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/ports"
	"errors"
	"reflect"
	"testing"
)

var (
	_ ports.RouteProvider = (*MockRouteProvider)(nil)
	_ ports.PlaceCatalog  = (*MockRouteProvider)(nil)
	_ ports.RouteProvider = (*ORSRouteProvider)(nil)
)

func TestMockRouteJurisdictions(t *testing.T) {
	p := NewMockRouteProvider(DefaultCities)

	tests := []struct {
		origin, destination string
		want                []string
	}{
		{"Chicago, IL", "Los Angeles, CA", []string{"IL", "AZ", "CO", "MO", "CA"}},
		{"Los Angeles, CA", "Chicago, IL", []string{"CA", "AZ", "CO", "MO", "IL"}},
		{"Chicago, IL", "Atlanta, GA", []string{"IL", "TN", "IN", "GA"}},
		{"Chicago, IL", "Dallas, TX", []string{"IL", "MO", "TX"}},
		{"Dallas, TX", "Los Angeles, CA", []string{"TX", "AZ", "CA"}},
		{"Denver, CO", "Los Angeles, CA", []string{"CO", "AZ", "CA"}},
		{"Chicago, IL", "Indianapolis, IN", []string{"IL", "IN"}},
		{"Chicago, IL", "Chicago, IL", []string{"IL"}},
	}

	for _, tt := range tests {
		route, err := p.BuildRoute(context.Background(), tt.origin, tt.destination)
		if err != nil {
			t.Fatalf("BuildRoute(%q, %q) error = %v", tt.origin, tt.destination, err)
		}
		if !reflect.DeepEqual(route.Jurisdictions, tt.want) {
			t.Fatalf("BuildRoute(%q, %q) jurisdictions = %v, want %v", tt.origin, tt.destination, route.Jurisdictions, tt.want)
		}
		if route.Mode != RoutingModeMock {
			t.Fatalf("mode = %q, want %q", route.Mode, RoutingModeMock)
		}
	}
}

func TestMockRoutePoints(t *testing.T) {
	p := NewMockRouteProvider(DefaultCities)

	route, err := p.BuildRoute(context.Background(), "Chicago, IL", "Atlanta, GA")
	if err != nil {
		t.Fatalf("BuildRoute() error = %v", err)
	}
	if len(route.Points) != 3 {
		t.Fatalf("len(points) = %d, want 3", len(route.Points))
	}

	chi, _ := p.city("Chicago, IL")
	atl, _ := p.city("Atlanta, GA")
	mid := route.Points[1]
	if mid.Type != domain.RoutePointMidpoint || mid.Coords != chi.Coords.Midpoint(atl.Coords) {
		t.Fatalf("midpoint = %+v, want midpoint of %+v and %+v", mid, chi.Coords, atl.Coords)
	}
	if route.Points[0].Type != domain.RoutePointOrigin || route.Points[2].Type != domain.RoutePointDestination {
		t.Fatalf("point types = %q, %q", route.Points[0].Type, route.Points[2].Type)
	}
}

func TestMockRouteUnknownCity(t *testing.T) {
	p := NewMockRouteProvider(DefaultCities)

	if _, err := p.BuildRoute(context.Background(), "Gotham", "Atlanta, GA"); !errors.Is(err, domain.ErrUnknownCity) {
		t.Fatalf("BuildRoute() error = %v, want ErrUnknownCity", err)
	}
	if _, err := p.BuildRoute(context.Background(), "Atlanta, GA", "Gotham"); !errors.Is(err, domain.ErrUnknownCity) {
		t.Fatalf("BuildRoute() error = %v, want ErrUnknownCity", err)
	}
}

func TestMockRouteCanceledContext(t *testing.T) {
	p := NewMockRouteProvider(DefaultCities)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.BuildRoute(ctx, "Chicago, IL", "Atlanta, GA"); !errors.Is(err, context.Canceled) {
		t.Fatalf("BuildRoute() error = %v, want context.Canceled", err)
	}
}

func TestCatalog(t *testing.T) {
	p := NewMockRouteProvider(DefaultCities)

	places := p.Places()
	if len(places) != len(DefaultCities) || places[0] != "Chicago, IL" {
		t.Fatalf("Places() = %v", places)
	}
	places[0] = "mutated"
	if p.Places()[0] != "Chicago, IL" {
		t.Fatalf("Places() returned internal slice")
	}

	if code, ok := p.JurisdictionOf("Denver, CO"); !ok || code != "CO" {
		t.Fatalf("JurisdictionOf(Denver) = %q, %v", code, ok)
	}
	if _, ok := p.JurisdictionOf("Gotham"); ok {
		t.Fatalf("JurisdictionOf(Gotham) ok = true, want false")
	}
}
