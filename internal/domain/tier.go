package domain

import (
	"fmt"
	"strings"
)

// Subscription tier of a session.
type Tier string

const (
	TierFree Tier = "Free"
	TierPro  Tier = "Pro"
)

// ParseTier accepts "free" or "pro" in any case.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free":
		return TierFree, nil
	case "pro":
		return TierPro, nil
	default:
		return "", fmt.Errorf("parse tier %q: %w", s, ErrInvalidInput)
	}
}

// Feature flags unlocked by a tier.
type Entitlements struct {
	AutoOCR             bool `json:"auto_ocr"`
	ComplianceAlerts    bool `json:"compliance_alerts"`
	InspectionMode      bool `json:"inspection_mode"`
	TripPlannerAdvanced bool `json:"trip_planner_advanced"`
}

// EntitlementsFor returns the feature set of a tier. Unknown tiers get the free set.
func EntitlementsFor(t Tier) Entitlements {
	if t == TierPro {
		return Entitlements{
			AutoOCR:             true,
			ComplianceAlerts:    true,
			InspectionMode:      true,
			TripPlannerAdvanced: true,
		}
	}
	return Entitlements{
		ComplianceAlerts: true,
	}
}
