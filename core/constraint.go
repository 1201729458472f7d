package core

// Severity ranks how serious a constraint violation is. Fixes are applied in
// severity order (high first) so later fixes operate on already-corrected text.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Constraint is a declarative business rule checked against a generated
// response. Check returns true when the response satisfies the rule.
// SuggestedFix, when non-nil, returns corrected content for a failing
// response; a failing constraint without a fix is recorded but does not
// block delivery.
type Constraint struct {
	ID           string
	Name         string
	Severity     Severity
	Check        func(resp Response) bool
	SuggestedFix func(resp Response) string
}
