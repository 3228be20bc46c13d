package services

import (
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/ports"
	"fmt"
)

// Rule snapshot for the truck's current location.
// Rule is nil when the jurisdiction has no rule data.
type GuardrailSnapshot struct {
	Location     string
	Jurisdiction string
	Rule         *domain.JurisdictionRule
}

// Guardrail resolves place to its jurisdiction through catalog and returns the
// applicable limits.
func Guardrail(rules *domain.RuleTable, catalog ports.PlaceCatalog, place string) (GuardrailSnapshot, error) {
	code, ok := catalog.JurisdictionOf(place)
	if !ok {
		return GuardrailSnapshot{}, fmt.Errorf("guardrail: %q: %w", place, domain.ErrUnknownCity)
	}

	snap := GuardrailSnapshot{Location: place, Jurisdiction: code}
	if r, ok := rules.Lookup(code); ok {
		snap.Rule = &r
	}
	return snap, nil
}
