package routing

import (
	"context"
	"dispatch-compliance-service/internal/domain"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeORS struct {
	searches   atomic.Int32
	reverses   atomic.Int32
	directions atomic.Int32
	failFirst  atomic.Int32
	places     map[string][]float64
	line       [][]float64
}

// regionFor assigns a state by longitude band.
func regionFor(lon float64) string {
	switch {
	case lon >= -88:
		return "IL"
	case lon >= -95:
		return "MO"
	case lon >= -102:
		return "KS"
	default:
		return "CO"
	}
}

func (f *fakeORS) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/geocode/search", func(w http.ResponseWriter, r *http.Request) {
		f.searches.Add(1)
		if r.Header.Get("Authorization") != "test-key" {
			http.Error(w, "missing key", http.StatusUnauthorized)
			return
		}
		coords, ok := f.places[r.URL.Query().Get("text")]
		features := []map[string]any{}
		if ok {
			features = append(features, map[string]any{"geometry": map[string]any{"coordinates": coords}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"features": features})
	})
	mux.HandleFunc("/geocode/reverse", func(w http.ResponseWriter, r *http.Request) {
		f.reverses.Add(1)
		lon, err := strconv.ParseFloat(r.URL.Query().Get("point.lon"), 64)
		if err != nil {
			t.Errorf("bad point.lon: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"features": []map[string]any{
			{"properties": map[string]any{"region_a": regionFor(lon)}},
		}})
	})
	mux.HandleFunc("/v2/directions/driving-hgv/geojson", func(w http.ResponseWriter, r *http.Request) {
		f.directions.Add(1)
		if f.failFirst.Load() > 0 {
			f.failFirst.Add(-1)
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		if r.Method != http.MethodPost {
			t.Errorf("directions method = %s, want POST", r.Method)
		}
		var req directionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Coordinates) != 2 {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"features": []map[string]any{
			{"geometry": map[string]any{"coordinates": f.line}},
		}})
	})
	return mux
}

func newFakeORS() *fakeORS {
	return &fakeORS{
		places: map[string][]float64{
			"Chicago, IL": {-87.6298, 41.8781},
			"Denver, CO":  {-104.9903, 39.7392},
		},
		line: [][]float64{
			{-87.6298, 41.8781},
			{-89.5, 40.9},
			{-94.6, 39.1},
			{-98.0, 39.0},
			{-101.5, 39.3},
			{-104.9903, 39.7392},
		},
	}
}

type memGeocodeCache struct {
	mu sync.Mutex
	m  map[string]domain.Coordinates
}

func (c *memGeocodeCache) GetMany(_ context.Context, places []string) (map[string]domain.Coordinates, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]domain.Coordinates{}
	for _, p := range places {
		if v, ok := c.m[p]; ok {
			out[p] = v
		}
	}
	return out, nil
}

func (c *memGeocodeCache) PutMany(_ context.Context, results map[string]domain.Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range results {
		c.m[k] = v
	}
	return nil
}

type memRegionCache struct {
	mu  sync.Mutex
	m   map[string]string
	key func(domain.Coordinates) string
}

func (c *memRegionCache) GetMany(_ context.Context, points []domain.Coordinates) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]string{}
	for _, p := range points {
		if v, ok := c.m[c.key(p)]; ok {
			out[c.key(p)] = v
		}
	}
	return out, nil
}

func (c *memRegionCache) PutMany(_ context.Context, regions map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range regions {
		c.m[k] = v
	}
	return nil
}

func newTestProvider(t *testing.T, f *fakeORS, gc GeocodeCache, rc RegionCache) *ORSRouteProvider {
	t.Helper()

	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	p, err := NewORSRouteProvider("test-key", gc, rc, nil)
	if err != nil {
		t.Fatalf("NewORSRouteProvider() error = %v", err)
	}
	p.baseURL = srv.URL
	p.backoff = time.Millisecond
	return p
}

func TestORSBuildRoute(t *testing.T) {
	f := newFakeORS()
	p := newTestProvider(t, f, nil, nil)

	route, err := p.BuildRoute(context.Background(), "Chicago, IL", "Denver, CO")
	if err != nil {
		t.Fatalf("BuildRoute() error = %v", err)
	}

	want := []string{"IL", "MO", "KS", "CO"}
	if !reflect.DeepEqual(route.Jurisdictions, want) {
		t.Fatalf("jurisdictions = %v, want %v", route.Jurisdictions, want)
	}
	if route.Mode != RoutingModeORS {
		t.Fatalf("mode = %q, want %q", route.Mode, RoutingModeORS)
	}
	if len(route.Points) != 3 || route.Points[0].Coords != (domain.Coordinates{Lon: -87.6298, Lat: 41.8781}) {
		t.Fatalf("points = %+v", route.Points)
	}
	if got := f.reverses.Load(); got != int32(len(f.line)) {
		t.Fatalf("reverse geocode calls = %d, want %d", got, len(f.line))
	}
}

func TestORSBuildRouteUsesCaches(t *testing.T) {
	f := newFakeORS()
	gc := &memGeocodeCache{m: map[string]domain.Coordinates{}}
	rc := &memRegionCache{m: map[string]string{}}
	p := newTestProvider(t, f, gc, rc)
	rc.key = p.regionKey

	if _, err := p.BuildRoute(context.Background(), "Chicago, IL", "Denver, CO"); err != nil {
		t.Fatalf("BuildRoute() error = %v", err)
	}
	searches, reverses := f.searches.Load(), f.reverses.Load()

	route, err := p.BuildRoute(context.Background(), "  Chicago,   IL ", "Denver, CO")
	if err != nil {
		t.Fatalf("BuildRoute() error = %v", err)
	}
	if f.searches.Load() != searches || f.reverses.Load() != reverses {
		t.Fatalf("second route issued lookups: searches %d -> %d, reverses %d -> %d",
			searches, f.searches.Load(), reverses, f.reverses.Load())
	}
	if !reflect.DeepEqual(route.Jurisdictions, []string{"IL", "MO", "KS", "CO"}) {
		t.Fatalf("jurisdictions = %v", route.Jurisdictions)
	}
}

func TestORSRetriesTransientFailures(t *testing.T) {
	f := newFakeORS()
	f.failFirst.Store(2)
	p := newTestProvider(t, f, nil, nil)

	if _, err := p.BuildRoute(context.Background(), "Chicago, IL", "Denver, CO"); err != nil {
		t.Fatalf("BuildRoute() error = %v", err)
	}
	if got := f.directions.Load(); got != 3 {
		t.Fatalf("directions calls = %d, want 3", got)
	}
}

func TestORSGivesUpAfterMaxAttempts(t *testing.T) {
	f := newFakeORS()
	f.failFirst.Store(10)
	p := newTestProvider(t, f, nil, nil)

	_, err := p.BuildRoute(context.Background(), "Chicago, IL", "Denver, CO")
	var he *httpStatusError
	if !errors.As(err, &he) || he.Code != http.StatusServiceUnavailable {
		t.Fatalf("BuildRoute() error = %v, want 503 status error", err)
	}
	if got := f.directions.Load(); got != orsMaxAttempts {
		t.Fatalf("directions calls = %d, want %d", got, orsMaxAttempts)
	}
}

func TestORSUnknownPlace(t *testing.T) {
	p := newTestProvider(t, newFakeORS(), nil, nil)

	_, err := p.BuildRoute(context.Background(), "Gotham", "Denver, CO")
	if !errors.Is(err, domain.ErrUnknownCity) {
		t.Fatalf("BuildRoute() error = %v, want ErrUnknownCity", err)
	}
}

func TestORSRejectsEmptyPlaces(t *testing.T) {
	p := newTestProvider(t, newFakeORS(), nil, nil)

	if _, err := p.BuildRoute(context.Background(), " ", "Denver, CO"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("BuildRoute() error = %v, want ErrInvalidInput", err)
	}
}

func TestNewORSRouteProviderRequiresKey(t *testing.T) {
	if _, err := NewORSRouteProvider("", nil, nil, nil); err == nil {
		t.Fatalf("NewORSRouteProvider(\"\") error = nil, want error")
	}
}

func TestSamplePoints(t *testing.T) {
	line := make([]domain.Coordinates, 101)
	for i := range line {
		line[i] = domain.Coordinates{Lon: float64(i)}
	}

	got := samplePoints(line, 5)
	want := []float64{0, 25, 50, 75, 100}
	if len(got) != len(want) {
		t.Fatalf("len(samplePoints) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Lon != want[i] {
			t.Fatalf("samplePoints[%d].Lon = %v, want %v", i, got[i].Lon, want[i])
		}
	}

	if short := samplePoints(line[:3], 5); len(short) != 3 {
		t.Fatalf("len(samplePoints(short)) = %d, want 3", len(short))
	}
}
