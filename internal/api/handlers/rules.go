package handlers

import (
	"dispatch-compliance-service/internal/api/dto"
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/ports"
	"dispatch-compliance-service/internal/services"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// RulesHandler serves the reference data: city catalog, rule table and guardrail snapshots.
type RulesHandler struct {
	Rules      *domain.RuleTable
	Advisories domain.AdvisoryTable
	Catalog    ports.PlaceCatalog
}

func (h *RulesHandler) Register(r chi.Router) {
	r.Get("/cities", h.Cities)
	r.Get("/rules", h.List)
	r.Get("/guardrail", h.Guardrail)
}

func (h *RulesHandler) Cities(w http.ResponseWriter, r *http.Request) {
	places := h.Catalog.Places()
	res := dto.ListCitiesResponse{Cities: make([]dto.CityResponse, 0, len(places))}
	for _, p := range places {
		code, _ := h.Catalog.JurisdictionOf(p)
		res.Cities = append(res.Cities, dto.CityResponse{Name: p, Jurisdiction: code})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *RulesHandler) List(w http.ResponseWriter, r *http.Request) {
	rules := h.Rules.Rules()
	res := dto.ListRulesResponse{Rules: make([]dto.RuleResponse, 0, len(rules))}
	for _, rule := range rules {
		res.Rules = append(res.Rules, dto.FromRule(rule, h.Advisories.For(rule.Code)))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Guardrail returns the limits of the state the given city is in.
func (h *RulesHandler) Guardrail(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		writeError(w, r, http.StatusBadRequest, "city is required")
		return
	}

	snap, err := services.Guardrail(h.Rules, h.Catalog, city)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.GuardrailResponse{
		Location:     snap.Location,
		Jurisdiction: snap.Jurisdiction,
		HasRuleData:  snap.Rule != nil,
	}
	if snap.Rule != nil {
		rule := dto.FromRule(*snap.Rule, h.Advisories.For(snap.Jurisdiction))
		res.Rule = &rule
	}
	writeJSON(w, r, http.StatusOK, res)
}
