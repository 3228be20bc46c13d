package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Per-jurisdiction vehicle limits (simulated reference data).
// A jurisdiction with no hazmat restriction tags places no hazmat-specific restriction.
type JurisdictionRule struct {
	Code                 string
	MaxGrossWeightLbs    int
	MinBridgeClearanceFt float64
	HazmatRestrictions   []string
}

// Validate rejects rules with empty codes or non-positive limits.
func (r JurisdictionRule) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return fmt.Errorf("jurisdiction rule: code is empty: %w", ErrInvalidInput)
	}
	if r.MaxGrossWeightLbs <= 0 {
		return fmt.Errorf("jurisdiction rule %s: max gross weight must be positive, got %d: %w", r.Code, r.MaxGrossWeightLbs, ErrInvalidInput)
	}
	if r.MinBridgeClearanceFt <= 0 {
		return fmt.Errorf("jurisdiction rule %s: min bridge clearance must be positive, got %.2f: %w", r.Code, r.MinBridgeClearanceFt, ErrInvalidInput)
	}
	for _, tag := range r.HazmatRestrictions {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("jurisdiction rule %s: empty hazmat restriction tag: %w", r.Code, ErrInvalidInput)
		}
	}
	return nil
}

// RuleTable is the immutable jurisdiction -> limits lookup.
// It is validated once at construction and safe for concurrent reads.
type RuleTable struct {
	rules map[string]JurisdictionRule
}

// NewRuleTable validates every rule and rejects duplicate codes.
// Codes are normalized to upper case.
func NewRuleTable(rules []JurisdictionRule) (*RuleTable, error) {
	m := make(map[string]JurisdictionRule, len(rules))
	for i, r := range rules {
		r.Code = NormalizeJurisdiction(r.Code)
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("new rule table: rule #%d: %w", i+1, err)
		}
		if _, dup := m[r.Code]; dup {
			return nil, fmt.Errorf("new rule table: duplicate jurisdiction %q: %w", r.Code, ErrInvalidInput)
		}
		r.HazmatRestrictions = slices.Clone(r.HazmatRestrictions)
		m[r.Code] = r
	}
	return &RuleTable{rules: m}, nil
}

// Lookup returns a copy of the rule for code.
func (t *RuleTable) Lookup(code string) (JurisdictionRule, bool) {
	if t == nil {
		return JurisdictionRule{}, false
	}
	r, ok := t.rules[code]
	if !ok {
		return JurisdictionRule{}, false
	}
	r.HazmatRestrictions = slices.Clone(r.HazmatRestrictions)
	return r, true
}

// Codes returns the jurisdiction codes in sorted order.
func (t *RuleTable) Codes() []string {
	if t == nil {
		return nil
	}
	codes := make([]string, 0, len(t.rules))
	for c := range t.rules {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	return codes
}

// Rules returns every rule sorted by code.
func (t *RuleTable) Rules() []JurisdictionRule {
	codes := t.Codes()
	out := make([]JurisdictionRule, 0, len(codes))
	for _, c := range codes {
		r, _ := t.Lookup(c)
		out = append(out, r)
	}
	return out
}

func (t *RuleTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// AdvisoryTable holds fixed, non-blocking hints keyed by jurisdiction code.
// It is separate from the RuleTable because its entries never block a route.
type AdvisoryTable map[string][]string

// For returns the advisories for code in declaration order.
func (a AdvisoryTable) For(code string) []string {
	return a[code]
}

// NormalizeJurisdiction trims and upper-cases a jurisdiction code.
func NormalizeJurisdiction(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
