package handlers

import (
	"dispatch-compliance-service/internal/api/dto"
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/platform/metrics"
	"dispatch-compliance-service/internal/ports"
	"dispatch-compliance-service/internal/services"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type TripHandler struct {
	Sessions   ports.SessionStore
	Provider   ports.RouteProvider
	Rules      *domain.RuleTable
	Advisories domain.AdvisoryTable
	Metrics    *metrics.Metrics
}

func (h *TripHandler) Register(r chi.Router) {
	r.Post("/sessions/{sessionID}/trips", h.Plan)
	r.Get("/sessions/{sessionID}/trips/last", h.Last)
}

// Plan builds a route, checks it against the rule table and stores it as the
// session's last route.
func (h *TripHandler) Plan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var req dto.PlanTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := h.Sessions.GetSession(ctx, chi.URLParam(r, "sessionID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	ent := domain.EntitlementsFor(sess.Tier)

	plan, err := services.PlanTrip(ctx, services.PlanTripRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		Vehicle: domain.VehicleProfile{
			HeightFt:       req.Vehicle.HeightFt,
			GrossWeightLbs: req.Vehicle.GrossWeightLbs,
			Hazmat:         req.Vehicle.Hazmat,
		},
		AvoidTolls:     req.AvoidTolls,
		PreferHighways: req.PreferHighways,
	}, h.Provider, h.Rules, h.Advisories, ent)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.Metrics.ObserveRouteLatency(time.Since(start))
	h.Metrics.IncrementFeasibility(string(plan.Result.Status), string(sess.Tier))

	route := plan.Route
	sess.LastRoute = &route
	sess.CurrentLocation = route.Origin
	if err := h.Sessions.SaveSession(ctx, sess); err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(ctx, "trip planned",
		"req_id", middleware.GetReqID(ctx),
		"session_id", sess.ID,
		"origin", route.Origin,
		"destination", route.Destination,
		"jurisdictions", route.Jurisdictions,
		"status", plan.Result.Status,
		"issues", len(plan.Result.Issues),
		"dur_ms", time.Since(start).Milliseconds(),
	)

	writeJSON(w, r, http.StatusOK, dto.TripPlanResponse{
		Route:          dto.FromRoute(plan.Route),
		Feasibility:    dto.FromFeasibility(plan.Result),
		AdvancedChecks: plan.AdvancedChecks,
	})
}

func (h *TripHandler) Last(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Sessions.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if sess.LastRoute == nil {
		writeError(w, r, http.StatusNotFound, "no trip planned in this session")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.FromRoute(*sess.LastRoute))
}
