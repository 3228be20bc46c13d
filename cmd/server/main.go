package main

import (
	"context"
	"database/sql"
	"dispatch-compliance-service/internal/adapters/cache"
	"dispatch-compliance-service/internal/adapters/extraction"
	"dispatch-compliance-service/internal/adapters/repositories"
	"dispatch-compliance-service/internal/adapters/routing"
	"dispatch-compliance-service/internal/adapters/session"
	"dispatch-compliance-service/internal/api"
	"dispatch-compliance-service/internal/config"
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/platform/db"
	"dispatch-compliance-service/internal/platform/logger"
	"dispatch-compliance-service/internal/platform/metrics"
	"dispatch-compliance-service/internal/platform/redis"
	"dispatch-compliance-service/internal/ports"
	"dispatch-compliance-service/internal/rules"
	"dispatch-compliance-service/internal/services"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires concrete adapters behind ports and runs the HTTP server until SIGINT/SIGTERM.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logger.New(cfg.LogLevel))
	if envErr != nil {
		slog.Info("no .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	conn, dialect, err := openStore(cfg)
	if err != nil {
		return err
	}
	if conn != nil {
		defer conn.Close()
		if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
			return err
		}
	}

	ruleTable, advisories, err := loadRules(ctx, cfg, conn, dialect)
	if err != nil {
		return err
	}
	slog.Info("rule table loaded", "jurisdictions", ruleTable.Len(), "store", cfg.StoreDriver)

	var documents ports.DocumentRepository = repositories.NewMemoryDocumentRepository()
	if conn != nil {
		documents = repositories.NewSQLDocumentRepository(conn, dialect)
	}

	var sessions ports.SessionStore = session.NewMemoryStore()
	rdb, err := redis.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb.Client, session.DefaultTTL)
		slog.Info("session store", "backend", "redis")
	}

	catalog := routing.NewMockRouteProvider(routing.DefaultCities)
	var provider ports.RouteProvider = catalog
	if cfg.RoutingMode == config.RoutingORS {
		var geocodes routing.GeocodeCache
		var regions routing.RegionCache
		// Caches only persist when a database is configured.
		if conn != nil {
			geocodes = cache.NewSQLGeocodeCache(conn, dialect)
			regions = cache.NewSQLRegionCache(conn, dialect)
		}
		provider, err = routing.NewORSRouteProvider(cfg.ORSAPIKey, geocodes, regions, cache.PointKey)
		if err != nil {
			return err
		}
	}
	slog.Info("route provider", "mode", cfg.RoutingMode)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	clock := ports.SystemClock{}
	router := api.NewRouter(api.Dependencies{
		Rules:      ruleTable,
		Advisories: advisories,
		Catalog:    catalog,
		Provider:   provider,
		Sessions:   sessions,
		Documents:  documents,
		Ingestor: &services.DocumentIngestor{
			Guesser:   extraction.FilenameGuesser{},
			Extractor: extraction.NewSimulatedExtractor(clock),
			Clock:     clock,
		},
		Clock:         clock,
		WarningWindow: time.Duration(cfg.WarningWindowDays) * 24 * time.Hour,
		Metrics:       metrics.New(reg),
		Gatherer:      reg,
	})

	// Timeouts allow for cold-cache ORS routing (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(cfg config.Config) (*sql.DB, db.Dialect, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		conn, err := db.OpenSQLite(cfg.DBPath)
		return conn, db.DialectSQLite, err
	case config.StorePostgres:
		conn, err := db.Open(cfg.DatabaseURL)
		return conn, db.DialectPostgres, err
	default:
		return nil, "", nil
	}
}

// loadRules picks the rule table source: RULES_PATH, then the database, then
// the built-in table. An empty database table is seeded with the built-in rules.
func loadRules(
	ctx context.Context,
	cfg config.Config,
	conn *sql.DB,
	dialect db.Dialect,
) (*domain.RuleTable, domain.AdvisoryTable, error) {
	if cfg.RulesPath != "" {
		return rules.LoadJSONFile(cfg.RulesPath)
	}
	if conn == nil {
		return rules.DefaultRuleTable(), rules.DefaultAdvisories(), nil
	}

	table, advisories, err := repositories.LoadRuleTable(ctx, conn)
	if err != nil {
		return nil, nil, err
	}
	if table.Len() > 0 {
		return table, advisories, nil
	}

	table, advisories = rules.DefaultRuleTable(), rules.DefaultAdvisories()
	if err := repositories.SeedRules(ctx, conn, dialect, rules.Seeds(table, advisories)); err != nil {
		return nil, nil, err
	}
	slog.Info("seeded empty rule table with built-in rules")
	return table, advisories, nil
}
