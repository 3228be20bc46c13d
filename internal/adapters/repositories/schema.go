package repositories

import (
	"context"
	"database/sql"
	"dispatch-compliance-service/internal/platform/db"
	"errors"
	"fmt"
)

// InitSchema creates the document, rule and cache tables if they do not exist.
// Dates are stored as ISO-8601 text so both dialects share one schema.
func InitSchema(ctx context.Context, conn *sql.DB, dialect db.Dialect) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDocumentsQuery := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		category TEXT NOT NULL,
		display_name TEXT NOT NULL,
		expiry_date TEXT,
		uploaded_at TEXT NOT NULL,
		source TEXT NOT NULL,
		extracted TEXT NOT NULL
	);
	`

	createDocumentsIndexQuery := `
	CREATE UNIQUE INDEX IF NOT EXISTS uq_documents_session_position
	ON documents(session_id, position);
	`

	createRulesQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS jurisdiction_rules (
		code TEXT PRIMARY KEY,
		max_gvw_lbs INTEGER NOT NULL CHECK (max_gvw_lbs > 0),
		min_bridge_ft %s NOT NULL CHECK (min_bridge_ft > 0),
		hazmat_restrictions TEXT NOT NULL
	);
	`, dialect.FloatType())

	createAdvisoriesQuery := `
	CREATE TABLE IF NOT EXISTS jurisdiction_advisories (
		code TEXT NOT NULL,
		position INTEGER NOT NULL,
		advisory TEXT NOT NULL,
		PRIMARY KEY (code, position)
	);
	`

	createGeocodeCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon %[1]s NOT NULL,
		lat %[1]s NOT NULL
	);
	`, dialect.FloatType())

	createRegionCacheQuery := `
	CREATE TABLE IF NOT EXISTS region_cache (
		point_key TEXT PRIMARY KEY,
		region TEXT NOT NULL
	);
	`

	statements := []string{
		createDocumentsQuery,
		createDocumentsIndexQuery,
		createRulesQuery,
		createAdvisoriesQuery,
		createGeocodeCacheQuery,
		createRegionCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
