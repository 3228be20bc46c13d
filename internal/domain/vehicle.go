package domain

import "fmt"

// Transient vehicle input for a feasibility check. Never persisted.
type VehicleProfile struct {
	HeightFt       float64
	GrossWeightLbs int
	Hazmat         bool
}

// Validate rejects non-positive height or weight.
func (v VehicleProfile) Validate() error {
	if v.HeightFt <= 0 {
		return fmt.Errorf("vehicle profile: height must be positive, got %.2f: %w", v.HeightFt, ErrInvalidInput)
	}
	if v.GrossWeightLbs <= 0 {
		return fmt.Errorf("vehicle profile: gross weight must be positive, got %d: %w", v.GrossWeightLbs, ErrInvalidInput)
	}
	return nil
}
