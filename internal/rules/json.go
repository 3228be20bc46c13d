package rules

import (
	"dispatch-compliance-service/internal/domain"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// JurisdictionSeed is the JSON shape of one rule table entry.
type JurisdictionSeed struct {
	Code               string   `json:"code"`
	MaxGVWLbs          int      `json:"max_gvw_lbs"`
	MinBridgeFt        float64  `json:"min_bridge_ft"`
	HazmatRestrictions []string `json:"hazmat_restrictions"`
	Advisories         []string `json:"advisories,omitempty"`
}

// Seeds converts a rule table and advisory table back into seed entries.
func Seeds(table *domain.RuleTable, advisories domain.AdvisoryTable) []JurisdictionSeed {
	out := make([]JurisdictionSeed, 0, table.Len())
	for _, r := range table.Rules() {
		out = append(out, JurisdictionSeed{
			Code:               r.Code,
			MaxGVWLbs:          r.MaxGrossWeightLbs,
			MinBridgeFt:        r.MinBridgeClearanceFt,
			HazmatRestrictions: r.HazmatRestrictions,
			Advisories:         advisories.For(r.Code),
		})
	}
	return out
}

// FromSeeds validates seed entries into a rule table and an advisory table.
func FromSeeds(seeds []JurisdictionSeed) (*domain.RuleTable, domain.AdvisoryTable, error) {
	rs := make([]domain.JurisdictionRule, 0, len(seeds))
	adv := domain.AdvisoryTable{}
	for _, s := range seeds {
		code := domain.NormalizeJurisdiction(s.Code)
		rs = append(rs, domain.JurisdictionRule{
			Code:                 code,
			MaxGrossWeightLbs:    s.MaxGVWLbs,
			MinBridgeClearanceFt: s.MinBridgeFt,
			HazmatRestrictions:   s.HazmatRestrictions,
		})
		for _, a := range s.Advisories {
			if a = strings.TrimSpace(a); a != "" {
				adv[code] = append(adv[code], a)
			}
		}
	}

	table, err := domain.NewRuleTable(rs)
	if err != nil {
		return nil, nil, fmt.Errorf("load rules: %w", err)
	}
	return table, adv, nil
}

// ParseJSON reads a JSON array of JurisdictionSeed.
func ParseJSON(r io.Reader) (*domain.RuleTable, domain.AdvisoryTable, error) {
	var seeds []JurisdictionSeed
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&seeds); err != nil {
		return nil, nil, fmt.Errorf("load rules: parse json: %w", err)
	}
	return FromSeeds(seeds)
}

// LoadJSONFile loads the rule table from a JSON file on disk.
func LoadJSONFile(path string) (*domain.RuleTable, domain.AdvisoryTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load rules: open %q: %w", path, err)
	}
	defer f.Close()

	return ParseJSON(f)
}
