package cache

import (
	"context"
	"database/sql"
	"dispatch-compliance-service/internal/adapters/repositories"
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/platform/db"
	"testing"
)

func openCacheDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := repositories.InitSchema(context.Background(), conn, db.DialectSQLite); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}
	return conn
}

func TestGeocodeCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewSQLGeocodeCache(openCacheDB(t), db.DialectSQLite)

	chicago := domain.Coordinates{Lon: -87.6298, Lat: 41.8781}
	if err := c.PutMany(ctx, map[string]domain.Coordinates{"chicago, il": chicago}); err != nil {
		t.Fatalf("PutMany() error = %v", err)
	}

	got, err := c.GetMany(ctx, []string{"chicago, il", "chicago, il", "denver, co", " "})
	if err != nil {
		t.Fatalf("GetMany() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	if got["chicago, il"] != chicago {
		t.Fatalf("got[chicago] = %+v, want %+v", got["chicago, il"], chicago)
	}
}

func TestGeocodeCacheUpsert(t *testing.T) {
	ctx := context.Background()
	c := NewSQLGeocodeCache(openCacheDB(t), db.DialectSQLite)

	if err := c.PutMany(ctx, map[string]domain.Coordinates{"x": {Lon: 1, Lat: 2}}); err != nil {
		t.Fatalf("PutMany() error = %v", err)
	}
	if err := c.PutMany(ctx, map[string]domain.Coordinates{"x": {Lon: 3, Lat: 4}}); err != nil {
		t.Fatalf("PutMany() error = %v", err)
	}

	got, err := c.GetMany(ctx, []string{"x"})
	if err != nil {
		t.Fatalf("GetMany() error = %v", err)
	}
	if want := (domain.Coordinates{Lon: 3, Lat: 4}); got["x"] != want {
		t.Fatalf("got[x] = %+v, want %+v", got["x"], want)
	}
}

func TestGeocodeCacheRejectsEmptyKey(t *testing.T) {
	c := NewSQLGeocodeCache(openCacheDB(t), db.DialectSQLite)

	if err := c.PutMany(context.Background(), map[string]domain.Coordinates{"  ": {}}); err == nil {
		t.Fatalf("PutMany() error = nil, want error for empty key")
	}
}

func TestGeocodeCacheEmptyLookup(t *testing.T) {
	c := NewSQLGeocodeCache(openCacheDB(t), db.DialectSQLite)

	got, err := c.GetMany(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetMany() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len(got) = %d, want 0", len(got))
	}
}

func TestPointKeyRounds(t *testing.T) {
	a := PointKey(domain.Coordinates{Lon: -104.99031, Lat: 39.73921})
	b := PointKey(domain.Coordinates{Lon: -104.98969, Lat: 39.74049})

	if a != "39.74,-104.99" {
		t.Fatalf("PointKey() = %q, want %q", a, "39.74,-104.99")
	}
	if a != b {
		t.Fatalf("PointKey() = %q and %q, want equal keys for nearby points", a, b)
	}
}

func TestRegionCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewSQLRegionCache(openCacheDB(t), db.DialectSQLite)

	denver := domain.Coordinates{Lon: -104.9903, Lat: 39.7392}
	phoenix := domain.Coordinates{Lon: -112.0740, Lat: 33.4484}

	if err := c.PutMany(ctx, map[string]string{PointKey(denver): "CO"}); err != nil {
		t.Fatalf("PutMany() error = %v", err)
	}

	got, err := c.GetMany(ctx, []domain.Coordinates{denver, phoenix})
	if err != nil {
		t.Fatalf("GetMany() error = %v", err)
	}
	if got[PointKey(denver)] != "CO" {
		t.Fatalf("region(denver) = %q, want CO", got[PointKey(denver)])
	}
	if _, ok := got[PointKey(phoenix)]; ok {
		t.Fatalf("region(phoenix) cached, want miss")
	}
}

func TestRegionCacheRejectsEmptyRegion(t *testing.T) {
	c := NewSQLRegionCache(openCacheDB(t), db.DialectSQLite)

	if err := c.PutMany(context.Background(), map[string]string{"1.00,2.00": ""}); err == nil {
		t.Fatalf("PutMany() error = nil, want error for empty region")
	}
}
