package services

import (
	"dispatch-compliance-service/internal/domain"
	"fmt"
	"strings"
)

// EvaluateFeasibility checks every jurisdiction of a route against the rule table.
//
// Each code is evaluated independently and in input order; a code listed twice is
// evaluated twice. Unknown codes produce an advisory and are otherwise skipped, so
// missing reference data never passes or fails a route silently. The result is RISK
// iff at least one blocking issue was found.
//
// The only error is a contract violation: a nil rule table or an invalid vehicle.
func EvaluateFeasibility(
	rules *domain.RuleTable,
	advisories domain.AdvisoryTable,
	jurisdictions []string,
	vehicle domain.VehicleProfile,
) (domain.FeasibilityResult, error) {
	if rules == nil {
		return domain.FeasibilityResult{}, fmt.Errorf("evaluate feasibility: rule table is nil: %w", domain.ErrInvalidInput)
	}
	if err := vehicle.Validate(); err != nil {
		return domain.FeasibilityResult{}, fmt.Errorf("evaluate feasibility: %w", err)
	}

	issues := []string{}
	notes := []string{}

	for _, raw := range jurisdictions {
		code := domain.NormalizeJurisdiction(raw)

		rule, ok := rules.Lookup(code)
		if !ok {
			notes = append(notes, fmt.Sprintf("%s: No rule data (simulated dataset incomplete).", code))
			continue
		}

		if vehicle.HeightFt > rule.MinBridgeClearanceFt {
			issues = append(issues, fmt.Sprintf(
				"%s: Height %.1fft exceeds simulated min bridge clearance %.1fft.",
				code, vehicle.HeightFt, rule.MinBridgeClearanceFt,
			))
		}

		if vehicle.GrossWeightLbs > rule.MaxGrossWeightLbs {
			issues = append(issues, fmt.Sprintf(
				"%s: GVW %dlbs exceeds max %dlbs.",
				code, vehicle.GrossWeightLbs, rule.MaxGrossWeightLbs,
			))
		}

		if vehicle.Hazmat && len(rule.HazmatRestrictions) > 0 {
			issues = append(issues, fmt.Sprintf(
				"%s: Hazmat flagged restrictions: %s (simulated).",
				code, strings.Join(rule.HazmatRestrictions, ", "),
			))
		}

		notes = append(notes, advisories.For(code)...)
	}

	status := domain.FeasibilityOK
	if len(issues) > 0 {
		status = domain.FeasibilityRisk
	}

	return domain.FeasibilityResult{
		Status:     status,
		Issues:     issues,
		Advisories: notes,
		DataNote:   domain.FeasibilityDataNote,
	}, nil
}
