package cache

import (
	"context"
	"database/sql"
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/platform/db"
	"dispatch-compliance-service/internal/platform/obs"
	"errors"
	"fmt"
	"math"
)

// SQLRegionCache caches reverse-geocoded jurisdiction codes by rounded coordinate.
// Points are bucketed to two decimal places (roughly 1 km).
type SQLRegionCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLRegionCache(conn *sql.DB, dialect db.Dialect) *SQLRegionCache {
	return &SQLRegionCache{DB: conn, Dialect: dialect}
}

// PointKey is the cache key of a coordinate.
func PointKey(c domain.Coordinates) string {
	round := func(v float64) float64 { return math.Round(v*100) / 100 }
	return fmt.Sprintf("%.2f,%.2f", round(c.Lat), round(c.Lon))
}

// Fetch cached jurisdiction codes keyed by PointKey.
func (s *SQLRegionCache) GetMany(
	ctx context.Context,
	points []domain.Coordinates,
) (_ map[string]string, err error) {
	defer obs.Time(ctx, "region.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("region cache: db is nil")
	}

	keys := make([]string, 0, len(points))
	for _, p := range points {
		keys = append(keys, PointKey(p))
	}
	uniq := uniqueKeys(keys)
	if len(uniq) == 0 {
		return map[string]string{}, nil
	}

	args := make([]any, 0, len(uniq))
	for _, k := range uniq {
		args = append(args, k)
	}

	q := fmt.Sprintf(`
	SELECT point_key, region
	FROM region_cache
	WHERE point_key IN (%s);
	`, s.Dialect.Placeholders(1, len(uniq)))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get region cache: query region_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string, len(uniq))
	for rows.Next() {
		var key, region string
		if err := rows.Scan(&key, &region); err != nil {
			return nil, fmt.Errorf("get region cache: scan rows: %w", err)
		}
		out[key] = region
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get region cache: row iteration: %w", err)
	}

	return out, nil
}

// Store PointKey -> jurisdiction code mappings.
func (s *SQLRegionCache) PutMany(ctx context.Context, regions map[string]string) error {
	if s.DB == nil {
		return errors.New("region cache: db is nil")
	}

	if len(regions) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert region cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO region_cache (point_key, region)
	VALUES (?, ?)
	ON CONFLICT (point_key) DO UPDATE
	SET region = excluded.region;
	`))
	if err != nil {
		return fmt.Errorf("insert region cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for key, region := range regions {
		if key == "" || region == "" {
			return fmt.Errorf("insert region cache: empty key or region (key=%q)", key)
		}
		if _, err := stmt.ExecContext(ctx, key, region); err != nil {
			return fmt.Errorf("insert region cache key=%q: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert region cache commit: %w", err)
	}

	return nil
}
