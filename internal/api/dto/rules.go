package dto

import "dispatch-compliance-service/internal/domain"

type RuleResponse struct {
	Code               string   `json:"code"`
	MaxGVWLbs          int      `json:"max_gvw_lbs"`
	MinBridgeFt        float64  `json:"min_bridge_ft"`
	HazmatRestrictions []string `json:"hazmat_restrictions"`
	Advisories         []string `json:"advisories"`
}

type ListRulesResponse struct {
	Rules []RuleResponse `json:"rules"`
}

type CityResponse struct {
	Name         string `json:"name"`
	Jurisdiction string `json:"jurisdiction"`
}

type ListCitiesResponse struct {
	Cities []CityResponse `json:"cities"`
}

// Rule is null when the jurisdiction has no rule data.
type GuardrailResponse struct {
	Location     string        `json:"location"`
	Jurisdiction string        `json:"jurisdiction"`
	Rule         *RuleResponse `json:"rule"`
	HasRuleData  bool          `json:"has_rule_data"`
}

func FromRule(r domain.JurisdictionRule, advisories []string) RuleResponse {
	return RuleResponse{
		Code:               r.Code,
		MaxGVWLbs:          r.MaxGrossWeightLbs,
		MinBridgeFt:        r.MinBridgeClearanceFt,
		HazmatRestrictions: nonNil(r.HazmatRestrictions),
		Advisories:         nonNil(advisories),
	}
}
