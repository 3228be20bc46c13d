package routing

import (
	"context"
	"dispatch-compliance-service/internal/domain"
	"fmt"
	"slices"
)

// A known city with its coordinates and state.
type City struct {
	Name   string
	Coords domain.Coordinates
	State  string
}

// DefaultCities is the simulated city catalog in display order.
var DefaultCities = []City{
	{Name: "Chicago, IL", Coords: domain.Coordinates{Lat: 41.8781, Lon: -87.6298}, State: "IL"},
	{Name: "Indianapolis, IN", Coords: domain.Coordinates{Lat: 39.7684, Lon: -86.1581}, State: "IN"},
	{Name: "St. Louis, MO", Coords: domain.Coordinates{Lat: 38.6270, Lon: -90.1994}, State: "MO"},
	{Name: "Nashville, TN", Coords: domain.Coordinates{Lat: 36.1627, Lon: -86.7816}, State: "TN"},
	{Name: "Atlanta, GA", Coords: domain.Coordinates{Lat: 33.7490, Lon: -84.3880}, State: "GA"},
	{Name: "Dallas, TX", Coords: domain.Coordinates{Lat: 32.7767, Lon: -96.7970}, State: "TX"},
	{Name: "Denver, CO", Coords: domain.Coordinates{Lat: 39.7392, Lon: -104.9903}, State: "CO"},
	{Name: "Phoenix, AZ", Coords: domain.Coordinates{Lat: 33.4484, Lon: -112.0740}, State: "AZ"},
	{Name: "Los Angeles, CA", Coords: domain.Coordinates{Lat: 34.0522, Lon: -118.2437}, State: "CA"},
}

// Likely corridor states for some state pairs; looked up in both directions.
var defaultCorridors = map[[2]string][]string{
	{"IL", "GA"}: {"IN", "TN"},
	{"IL", "TX"}: {"MO"},
	{"IL", "CA"}: {"MO", "CO", "AZ"},
	{"TX", "CA"}: {"AZ"},
	{"CO", "CA"}: {"AZ"},
}

// RoutingModeMock labels routes built without a routing API.
const RoutingModeMock = "MOCK"

// MockRouteProvider guesses traversed states from a fixed city catalog and
// corridor table, and draws a straight line through the midpoint.
// It is a visual mock, not truck-safe routing.
type MockRouteProvider struct {
	cities    map[string]City
	order     []string
	corridors map[[2]string][]string
}

func NewMockRouteProvider(cities []City) *MockRouteProvider {
	p := &MockRouteProvider{
		cities:    make(map[string]City, len(cities)),
		order:     make([]string, 0, len(cities)),
		corridors: defaultCorridors,
	}
	for _, c := range cities {
		p.cities[c.Name] = c
		p.order = append(p.order, c.Name)
	}
	return p
}

func (p *MockRouteProvider) Places() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

func (p *MockRouteProvider) JurisdictionOf(place string) (string, bool) {
	c, ok := p.cities[place]
	if !ok {
		return "", false
	}
	return c.State, true
}

func (p *MockRouteProvider) city(name string) (City, bool) {
	c, ok := p.cities[name]
	return c, ok
}

func (p *MockRouteProvider) BuildRoute(ctx context.Context, origin, destination string) (domain.Route, error) {
	if err := ctx.Err(); err != nil {
		return domain.Route{}, err
	}

	o, ok := p.cities[origin]
	if !ok {
		return domain.Route{}, fmt.Errorf("mock route: origin %q: %w", origin, domain.ErrUnknownCity)
	}
	d, ok := p.cities[destination]
	if !ok {
		return domain.Route{}, fmt.Errorf("mock route: destination %q: %w", destination, domain.ErrUnknownCity)
	}

	states := make([]string, 0, 5)
	for _, s := range []string{o.State, d.State} {
		if !slices.Contains(states, s) {
			states = append(states, s)
		}
	}

	extra, ok := p.corridors[[2]string{o.State, d.State}]
	if !ok {
		extra = p.corridors[[2]string{d.State, o.State}]
	}
	// Each corridor state is inserted right after the origin, so the last
	// listed corridor state ends up first.
	for _, s := range extra {
		if slices.Contains(states, s) {
			continue
		}
		states = slices.Insert(states, 1, s)
	}

	points := []domain.RoutePoint{
		{Name: origin, Coords: o.Coords, Type: domain.RoutePointOrigin},
		{Name: "Midpoint", Coords: o.Coords.Midpoint(d.Coords), Type: domain.RoutePointMidpoint},
		{Name: destination, Coords: d.Coords, Type: domain.RoutePointDestination},
	}

	return domain.Route{
		Origin:        origin,
		Destination:   destination,
		Jurisdictions: states,
		Points:        points,
		Mode:          RoutingModeMock,
	}, nil
}
