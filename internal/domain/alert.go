package domain

// Alert severity. HIGH covers expired or missing-required documents,
// MED covers documents inside the warning window. LOW is reserved.
type Severity string

const (
	SeverityHigh Severity = "HIGH"
	SeverityMed  Severity = "MED"
	SeverityLow  Severity = "LOW"
)

// Rank orders severities for sorting: HIGH=0, MED=1, LOW=2, unknown last.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMed:
		return 1
	case SeverityLow:
		return 2
	default:
		return 9
	}
}

// A generated warning about a missing or expiring document.
type ComplianceAlert struct {
	Severity Severity
	Title    string
	Detail   string
}
