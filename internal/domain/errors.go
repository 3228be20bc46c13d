package domain

import "errors"

// Sentinel errors shared across services, adapters and the HTTP layer.
// Callers wrap them with context and match with errors.Is.
var (
	// ErrInvalidInput marks a contract violation: malformed vehicle profile,
	// unknown document category, invalid rule limits.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned by stores when an entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnknownCity is returned by route providers for cities outside their catalog.
	ErrUnknownCity = errors.New("unknown city")
	// ErrNotEntitled is returned when the session tier does not include a feature.
	ErrNotEntitled = errors.New("feature not included in tier")
)
