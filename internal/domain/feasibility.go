package domain

// Verdict of a feasibility check.
type FeasibilityStatus string

const (
	FeasibilityOK   FeasibilityStatus = "OK"
	FeasibilityRisk FeasibilityStatus = "RISK"
)

// FeasibilityDataNote is attached to every result; the rule data is simulated.
const FeasibilityDataNote = "Rules + bridge clearances are simulated."

// Output of a feasibility check. Status is RISK iff Issues is non-empty.
type FeasibilityResult struct {
	Status     FeasibilityStatus
	Issues     []string
	Advisories []string
	DataNote   string
}
