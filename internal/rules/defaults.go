// Package rules holds the simulated jurisdiction reference data and its loaders.
package rules

import "dispatch-compliance-service/internal/domain"

// Simulated state limits. Not authoritative; replace with live state regulations.
var defaultRules = []domain.JurisdictionRule{
	{Code: "IL", MaxGrossWeightLbs: 80000, MinBridgeClearanceFt: 13.6, HazmatRestrictions: []string{"tunnel_ban"}},
	{Code: "IN", MaxGrossWeightLbs: 80000, MinBridgeClearanceFt: 13.9},
	{Code: "MO", MaxGrossWeightLbs: 80000, MinBridgeClearanceFt: 13.5},
	{Code: "TN", MaxGrossWeightLbs: 80000, MinBridgeClearanceFt: 13.6, HazmatRestrictions: []string{"city_center_ban"}},
	{Code: "GA", MaxGrossWeightLbs: 80000, MinBridgeClearanceFt: 14.0},
	{Code: "TX", MaxGrossWeightLbs: 80000, MinBridgeClearanceFt: 13.7},
	{Code: "CO", MaxGrossWeightLbs: 80000, MinBridgeClearanceFt: 13.8, HazmatRestrictions: []string{"mountain_pass_advisory"}},
	{Code: "AZ", MaxGrossWeightLbs: 80000, MinBridgeClearanceFt: 13.6},
	{Code: "CA", MaxGrossWeightLbs: 80000, MinBridgeClearanceFt: 14.0, HazmatRestrictions: []string{"carb_compliance"}},
}

// DefaultRuleTable returns the built-in simulated rule table.
func DefaultRuleTable() *domain.RuleTable {
	t, err := domain.NewRuleTable(defaultRules)
	if err != nil {
		// The built-in table is static; failing here is a programming error.
		panic(err)
	}
	return t
}

// DefaultAdvisories returns the fixed per-jurisdiction hints.
func DefaultAdvisories() domain.AdvisoryTable {
	return domain.AdvisoryTable{
		"CO": {"CO: Mountain pass weather can force chain requirements (not checked in this prototype)."},
		"CA": {"CA: CARB compliance can apply depending on equipment (not validated in this prototype)."},
	}
}
