package api

import (
	"dispatch-compliance-service/internal/api/handlers"
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/platform/metrics"
	"dispatch-compliance-service/internal/ports"
	"dispatch-compliance-service/internal/services"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the ports and reference data the HTTP layer needs.
type Dependencies struct {
	Rules         *domain.RuleTable
	Advisories    domain.AdvisoryTable
	Catalog       ports.PlaceCatalog
	Provider      ports.RouteProvider
	Sessions      ports.SessionStore
	Documents     ports.DocumentRepository
	Ingestor      *services.DocumentIngestor
	Clock         ports.Clock
	WarningWindow time.Duration
	Metrics       *metrics.Metrics
	// Gatherer backs /metrics; the endpoint is omitted when nil.
	Gatherer prometheus.Gatherer
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	window := deps.WarningWindow
	if window <= 0 {
		window = services.DefaultWarningWindow
	}

	(&handlers.RulesHandler{
		Rules:      deps.Rules,
		Advisories: deps.Advisories,
		Catalog:    deps.Catalog,
	}).Register(r)
	(&handlers.SessionHandler{Sessions: deps.Sessions}).Register(r)
	(&handlers.TripHandler{
		Sessions:   deps.Sessions,
		Provider:   deps.Provider,
		Rules:      deps.Rules,
		Advisories: deps.Advisories,
		Metrics:    deps.Metrics,
	}).Register(r)
	(&handlers.DocumentHandler{
		Sessions:      deps.Sessions,
		Repo:          deps.Documents,
		Ingestor:      deps.Ingestor,
		Clock:         deps.Clock,
		WarningWindow: window,
		Metrics:       deps.Metrics,
	}).Register(r)

	return r
}
