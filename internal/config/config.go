package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store drivers for documents and rules.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Routing modes.
const (
	RoutingMock = "mock"
	RoutingORS  = "ors"
)

// Config captures process level settings read from the environment.
type Config struct {
	Port        string
	StoreDriver string
	DBPath      string
	DatabaseURL string
	// RulesPath points at a JSON rule table; empty means rules come from the
	// database (sqlite/postgres) or the built-in defaults (memory).
	RulesPath         string
	RedisURL          string
	RoutingMode       string
	ORSAPIKey         string
	WarningWindowDays int
	LogLevel          string
}

// Get returns the environment value for key or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load builds a Config from environment variables and validates it.
func Load() (Config, error) {
	window, err := strconv.Atoi(Get("WARNING_WINDOW_DAYS", "30"))
	if err != nil {
		return Config{}, fmt.Errorf("load config: WARNING_WINDOW_DAYS: %w", err)
	}

	cfg := Config{
		Port:              Get("PORT", "8080"),
		StoreDriver:       strings.ToLower(Get("STORE_DRIVER", StoreMemory)),
		DBPath:            Get("DB_PATH", "data/app.db"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RulesPath:         os.Getenv("RULES_PATH"),
		RedisURL:          os.Getenv("REDIS_URL"),
		RoutingMode:       strings.ToLower(Get("ROUTING_MODE", RoutingMock)),
		ORSAPIKey:         os.Getenv("ORS_API_KEY"),
		WarningWindowDays: window,
		LogLevel:          Get("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.RoutingMode {
	case RoutingMock:
	case RoutingORS:
		if strings.TrimSpace(c.ORSAPIKey) == "" {
			return errors.New("ORS_API_KEY is required for ors routing")
		}
	default:
		return fmt.Errorf("unknown ROUTING_MODE %q", c.RoutingMode)
	}

	if c.WarningWindowDays <= 0 {
		return fmt.Errorf("WARNING_WINDOW_DAYS must be positive, got %d", c.WarningWindowDays)
	}
	return nil
}
