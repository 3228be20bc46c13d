package routing

import (
	"context"
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/platform/obs"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			RegionA string `json:"region_a"`
		} `json:"properties"`
	} `json:"features"`
}

func (o *ORSRouteProvider) getGeocode(ctx context.Context, endpoint string, params map[string]string) (geocodeResponse, error) {
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return geocodeResponse{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return geocodeResponse{}, fmt.Errorf("decode geocode response: %w", err)
	}
	return decoded, nil
}

// geocodeMany resolves place names through /geocode/search, at most
// o.concurrency requests in flight.
func (o *ORSRouteProvider) geocodeMany(
	ctx context.Context,
	places []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.geocodeMany")(&err)

	endpoint := o.baseURL + "/geocode/search"

	var mu sync.Mutex
	out := make(map[string]domain.Coordinates, len(places))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for _, p := range places {
		g.Go(func() error {
			decoded, err := o.getGeocode(gctx, endpoint, map[string]string{
				"text":             p,
				"boundary.country": "US",
				"size":             "1",
			})
			if err != nil {
				return fmt.Errorf("geocode %q: %w", p, err)
			}
			if len(decoded.Features) == 0 {
				return fmt.Errorf("geocode %q: no results: %w", p, domain.ErrUnknownCity)
			}

			coords := decoded.Features[0].Geometry.Coordinates
			if len(coords) != 2 {
				return fmt.Errorf("geocode %q: invalid coordinate format", p)
			}

			mu.Lock()
			out[p] = domain.Coordinates{Lon: coords[0], Lat: coords[1]}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// reverseRegions resolves the state code of each point through /geocode/reverse.
// Results are keyed by regionKey; points without a region are omitted.
func (o *ORSRouteProvider) reverseRegions(
	ctx context.Context,
	points []domain.Coordinates,
) (_ map[string]string, err error) {
	defer obs.Time(ctx, "ors.reverseRegions")(&err)

	endpoint := o.baseURL + "/geocode/reverse"

	var mu sync.Mutex
	out := make(map[string]string, len(points))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for _, p := range points {
		g.Go(func() error {
			decoded, err := o.getGeocode(gctx, endpoint, map[string]string{
				"point.lon": strconv.FormatFloat(p.Lon, 'f', 5, 64),
				"point.lat": strconv.FormatFloat(p.Lat, 'f', 5, 64),
				"layers":    "region",
				"size":      "1",
			})
			if err != nil {
				return fmt.Errorf("reverse geocode %s: %w", o.regionKey(p), err)
			}
			if len(decoded.Features) == 0 {
				return nil
			}

			region := domain.NormalizeJurisdiction(decoded.Features[0].Properties.RegionA)
			if region == "" {
				return nil
			}

			mu.Lock()
			out[o.regionKey(p)] = region
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func normalizePlace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
