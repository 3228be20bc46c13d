package routing

import (
	"context"
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/platform/obs"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"
)

// RoutingModeORS labels routes built from OpenRouteService directions.
const RoutingModeORS = "ORS"

const (
	defaultORSBaseURL  = "https://api.openrouteservice.org"
	defaultORSProfile  = "driving-hgv"
	defaultSampleCount = 24
	defaultConcurrency = 4
)

// GeocodeCache stores place name -> coordinates lookups.
type GeocodeCache interface {
	GetMany(ctx context.Context, places []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

// RegionCache stores rounded coordinate -> state code lookups.
type RegionCache interface {
	GetMany(ctx context.Context, points []domain.Coordinates) (map[string]string, error)
	PutMany(ctx context.Context, regions map[string]string) error
}

// ORSRouteProvider implements RouteProvider using OpenRouteService.
//
// Places are geocoded, a heavy-goods-vehicle route is requested, and the
// states the route crosses are found by reverse geocoding points sampled
// along the returned geometry. Both lookups go through optional caches.
// The provider is safe for concurrent use.
type ORSRouteProvider struct {
	client       *http.Client
	apiKey       string
	baseURL      string
	profile      string
	samples      int
	concurrency  int
	backoff      time.Duration
	geocodeCache GeocodeCache
	regionCache  RegionCache
	regionKey    func(domain.Coordinates) string
}

// NewORSRouteProvider builds a provider. Either cache may be nil.
// regionKey buckets coordinates for the region cache and must match the cache's keys.
func NewORSRouteProvider(
	apiKey string,
	geocodeCache GeocodeCache,
	regionCache RegionCache,
	regionKey func(domain.Coordinates) string,
) (*ORSRouteProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if regionKey == nil {
		regionKey = func(c domain.Coordinates) string { return fmt.Sprintf("%.2f,%.2f", c.Lat, c.Lon) }
	}

	return &ORSRouteProvider{
		client:       &http.Client{Timeout: 15 * time.Second},
		apiKey:       apiKey,
		baseURL:      defaultORSBaseURL,
		profile:      defaultORSProfile,
		samples:      defaultSampleCount,
		concurrency:  defaultConcurrency,
		backoff:      200 * time.Millisecond,
		geocodeCache: geocodeCache,
		regionCache:  regionCache,
		regionKey:    regionKey,
	}, nil
}

func (o *ORSRouteProvider) BuildRoute(ctx context.Context, origin, destination string) (_ domain.Route, err error) {
	defer obs.Time(ctx, "ors.BuildRoute")(&err)

	normOrigin := normalizePlace(origin)
	normDestination := normalizePlace(destination)
	if normOrigin == "" || normDestination == "" {
		return domain.Route{}, fmt.Errorf("ors route: origin and destination must be non-empty: %w", domain.ErrInvalidInput)
	}

	coords, err := o.resolvePlaces(ctx, []string{normOrigin, normDestination})
	if err != nil {
		return domain.Route{}, fmt.Errorf("ors route %q -> %q: %w", normOrigin, normDestination, err)
	}
	from, to := coords[normOrigin], coords[normDestination]

	line, err := o.fetchGeometry(ctx, from, to)
	if err != nil {
		return domain.Route{}, fmt.Errorf("ors route %q -> %q: %w", normOrigin, normDestination, err)
	}

	samples := samplePoints(line, o.samples)
	regions, err := o.resolveRegions(ctx, samples)
	if err != nil {
		return domain.Route{}, fmt.Errorf("ors route %q -> %q: %w", normOrigin, normDestination, err)
	}

	states := make([]string, 0, 8)
	for _, p := range samples {
		r, ok := regions[o.regionKey(p)]
		if !ok || slices.Contains(states, r) {
			continue
		}
		states = append(states, r)
	}

	return domain.Route{
		Origin:        origin,
		Destination:   destination,
		Jurisdictions: states,
		Points: []domain.RoutePoint{
			{Name: origin, Coords: from, Type: domain.RoutePointOrigin},
			{Name: "Midpoint", Coords: line[len(line)/2], Type: domain.RoutePointMidpoint},
			{Name: destination, Coords: to, Type: domain.RoutePointDestination},
		},
		Mode: RoutingModeORS,
	}, nil
}

// resolvePlaces returns coordinates for every place, consulting the cache first.
func (o *ORSRouteProvider) resolvePlaces(ctx context.Context, places []string) (map[string]domain.Coordinates, error) {
	hits := make(map[string]domain.Coordinates)
	if o.geocodeCache != nil {
		var err error
		hits, err = o.geocodeCache.GetMany(ctx, places)
		if err != nil {
			return nil, fmt.Errorf("get geocode cache: %w", err)
		}
	}

	misses := make([]string, 0, len(places))
	for _, p := range places {
		if _, ok := hits[p]; !ok && !slices.Contains(misses, p) {
			misses = append(misses, p)
		}
	}
	if len(misses) == 0 {
		return hits, nil
	}

	fresh, err := o.geocodeMany(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("retrieving coordinates: %w", err)
	}

	if o.geocodeCache != nil {
		if err := o.geocodeCache.PutMany(ctx, fresh); err != nil {
			slog.WarnContext(ctx, "geocode cache write failed", "error", err)
		}
	}

	out := make(map[string]domain.Coordinates, len(hits)+len(fresh))
	for k, v := range hits {
		out[k] = v
	}
	for k, v := range fresh {
		out[k] = v
	}
	return out, nil
}

// resolveRegions returns state codes keyed by regionKey, consulting the cache first.
func (o *ORSRouteProvider) resolveRegions(ctx context.Context, points []domain.Coordinates) (map[string]string, error) {
	hits := make(map[string]string)
	if o.regionCache != nil {
		var err error
		hits, err = o.regionCache.GetMany(ctx, points)
		if err != nil {
			return nil, fmt.Errorf("get region cache: %w", err)
		}
	}

	seen := make(map[string]struct{}, len(points))
	misses := make([]domain.Coordinates, 0, len(points))
	for _, p := range points {
		k := o.regionKey(p)
		if _, ok := hits[k]; ok {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		misses = append(misses, p)
	}
	if len(misses) == 0 {
		return hits, nil
	}

	fresh, err := o.reverseRegions(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("retrieving regions: %w", err)
	}

	if o.regionCache != nil && len(fresh) > 0 {
		if err := o.regionCache.PutMany(ctx, fresh); err != nil {
			slog.WarnContext(ctx, "region cache write failed", "error", err)
		}
	}

	out := make(map[string]string, len(hits)+len(fresh))
	for k, v := range hits {
		out[k] = v
	}
	for k, v := range fresh {
		out[k] = v
	}
	return out, nil
}
