package main

import (
	"context"
	"database/sql"
	"dispatch-compliance-service/internal/adapters/repositories"
	"dispatch-compliance-service/internal/config"
	"dispatch-compliance-service/internal/platform/db"
	"dispatch-compliance-service/internal/platform/logger"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// dbtool creates the schema and loads the jurisdiction rule table into
// sqlite (STORE_DRIVER=sqlite, DB_PATH) or postgres (STORE_DRIVER=postgres, DATABASE_URL).
func main() {
	envErr := godotenv.Load()
	slog.SetDefault(logger.New(config.Get("LOG_LEVEL", "info")))
	if envErr != nil {
		slog.Info("no .env file found (using environment variables)")
	}

	driver := config.Get("STORE_DRIVER", config.StoreSQLite)
	seedPath := config.Get("RULES_PATH", "data/seeds/jurisdiction_rules.json")

	var (
		conn    *sql.DB
		dialect db.Dialect
		err     error
	)
	switch driver {
	case config.StoreSQLite:
		conn, err = db.OpenSQLite(config.Get("DB_PATH", "data/app.db"))
		dialect = db.DialectSQLite
	case config.StorePostgres:
		url := os.Getenv("DATABASE_URL")
		if url == "" {
			err = fmt.Errorf("DATABASE_URL is required for the postgres store")
		} else {
			conn, err = db.Open(url)
		}
		dialect = db.DialectPostgres
	default:
		err = fmt.Errorf("STORE_DRIVER must be sqlite or postgres, got %q", driver)
	}
	if err != nil {
		slog.Error("open database", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := initAndSeed(context.Background(), conn, dialect, seedPath); err != nil {
		slog.Error("dbtool failed", "error", err)
		conn.Close()
		os.Exit(1)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect db.Dialect, seedPath string) error {
	slog.Info("initializing database schema", "dialect", dialect)
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	slog.Info("seeding jurisdiction rules", "path", seedPath)
	if err := repositories.SeedRulesFromJSON(ctx, conn, dialect, seedPath); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	table, _, err := repositories.LoadRuleTable(ctx, conn)
	if err != nil {
		return fmt.Errorf("verify seeded rules: %w", err)
	}
	slog.Info("seeding complete", "jurisdictions", table.Len())
	return nil
}
