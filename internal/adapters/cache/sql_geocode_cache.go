package cache

import (
	"context"
	"database/sql"
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/platform/db"
	"dispatch-compliance-service/internal/platform/obs"
	"errors"
	"fmt"
	"strings"
)

// SQLGeocodeCache is a SQL-backed cache mapping addresses to coordinates.
// Address keys are expected to be normalized by the caller.
type SQLGeocodeCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLGeocodeCache(conn *sql.DB, dialect db.Dialect) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: conn, Dialect: dialect}
}

// Fetch cached coordinates for the given addresses.
func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueKeys(addresses)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	args := make([]any, 0, len(uniq))
	for _, a := range uniq {
		args = append(args, a)
	}

	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT address, lon, lat
	FROM geocode_cache
	WHERE address IN (%s);
	`, s.Dialect.Placeholders(1, len(uniq)))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Coordinates, len(uniq))
	for rows.Next() {
		var addr string
		var lon, lat float64
		if err := rows.Scan(&addr, &lon, &lat); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan rows: %w", err)
		}
		out[addr] = domain.Coordinates{Lon: lon, Lat: lat}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: row iteration: %w", err)
	}

	return out, nil
}

// Store address -> coordinate mappings in the cache.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO geocode_cache (address, lon, lat)
	VALUES (?, ?, ?)
	ON CONFLICT (address) DO UPDATE
	SET lon = excluded.lon,
		lat = excluded.lat;
	`))
	if err != nil {
		return fmt.Errorf("insert geocode cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for addr, c := range results {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("insert geocode cache: empty address key")
		}

		if _, err := stmt.ExecContext(ctx, addr, c.Lon, c.Lat); err != nil {
			return fmt.Errorf("insert geocode cache coord=%q: %w", addr, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert geocode cache commit: %w", err)
	}

	return nil
}

func uniqueKeys(keys []string) []string {
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}
