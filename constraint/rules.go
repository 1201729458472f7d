package constraint

import (
	"strings"

	"github.com/deskmind/deskmind/core"
)

// Stock rules turning operational policies into independently testable
// predicates instead of scattered prompt text. Register the ones an agent
// needs; none are wired implicitly.

// NoUnilateralDeletePromise fails when a response promises to delete a task
// on its own; only staff may delete. The fix replaces the reply with a
// confirmation request worded to avoid the trigger terms, so the corrected
// text passes the check itself.
func NoUnilateralDeletePromise() core.Constraint {
	return core.Constraint{
		ID:       "no-unilateral-delete",
		Name:     "no unilateral delete promises",
		Severity: core.SeverityHigh,
		Check: func(resp core.Response) bool {
			lower := strings.ToLower(resp.Content)
			return !(strings.Contains(lower, "delete") && strings.Contains(lower, "task"))
		},
		SuggestedFix: func(resp core.Response) string {
			return "I can request that this item be removed, but a team member has to confirm it first. Should I send the removal request for review?"
		},
	}
}

// ConfirmBeforeAssigning fails when a response claims work was already
// assigned; assignment always needs prior confirmation.
func ConfirmBeforeAssigning() core.Constraint {
	return core.Constraint{
		ID:       "confirm-before-assign",
		Name:     "always confirm before assigning work",
		Severity: core.SeverityMedium,
		Check: func(resp core.Response) bool {
			lower := strings.ToLower(resp.Content)
			return !(strings.Contains(lower, "i have assigned") || strings.Contains(lower, "i've assigned"))
		},
		SuggestedFix: func(resp core.Response) string {
			return strings.NewReplacer(
				"I have assigned", "I can assign",
				"I've assigned", "I can assign",
			).Replace(resp.Content) + " Please confirm and I'll proceed."
		},
	}
}

// NoRefundPromise fails when a response guarantees a refund; refunds are
// approved by humans. No automatic fix: the violation is recorded and the
// reply delivered as-is.
func NoRefundPromise() core.Constraint {
	return core.Constraint{
		ID:       "no-refund-promise",
		Name:     "never guarantee refunds",
		Severity: core.SeverityHigh,
		Check: func(resp core.Response) bool {
			lower := strings.ToLower(resp.Content)
			return !strings.Contains(lower, "you will be refunded")
		},
	}
}

// DefaultRules returns the stock rule set applied by the agent facade.
func DefaultRules() []core.Constraint {
	return []core.Constraint{
		NoUnilateralDeletePromise(),
		ConfirmBeforeAssigning(),
		NoRefundPromise(),
	}
}
