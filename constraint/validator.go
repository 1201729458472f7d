// Package constraint implements post-hoc business-rule validation and
// correction of generated responses. Rules live in two pools, a global one
// and per-agent ones, consulted together at validate time. Failing rules
// with a suggested fix are corrected in severity order (high first) in a
// single pass; failing rules without a fix are recorded but never block
// delivery.
package constraint

import (
	"context"
	"sort"
	"sync"

	"github.com/deskmind/deskmind/core"
	"github.com/deskmind/deskmind/logging"
)

// Violation records one failing constraint for a validated response.
type Violation struct {
	ConstraintID string        `json:"constraint_id"`
	Name         string        `json:"name"`
	Severity     core.Severity `json:"severity"`
	Fixed        bool          `json:"fixed"`
	CheckPanic   bool          `json:"check_panic,omitempty"`
}

// Report summarizes one validation run.
type Report struct {
	Checked    int         `json:"checked"`
	Violations []Violation `json:"violations,omitempty"`
	Rewritten  bool        `json:"rewritten"`
}

// Clean reports whether every applicable constraint passed unmodified.
func (r Report) Clean() bool { return len(r.Violations) == 0 }

// Validator holds the global and agent-scoped constraint pools. Safe for
// concurrent use; registration is expected at startup but tolerated at any
// time.
type Validator struct {
	mu     sync.RWMutex
	global []core.Constraint
	scoped map[string][]core.Constraint
	logger logging.Logger
}

// NewValidator constructs an empty Validator. A nil logger is replaced by a
// NoOpLogger.
func NewValidator(logger logging.Logger) *Validator {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Validator{scoped: make(map[string][]core.Constraint), logger: logger}
}

// Register adds a constraint to the global pool.
func (v *Validator) Register(c core.Constraint) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.global = append(v.global, c)
}

// RegisterAgentConstraints adds constraints to the pool scoped to agentID.
func (v *Validator) RegisterAgentConstraints(agentID string, cs []core.Constraint) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scoped[agentID] = append(v.scoped[agentID], cs...)
}

// applicable returns the merged pools for an agent, fixes-first ordering
// deferred to Validate.
func (v *Validator) applicable(agentID string) []core.Constraint {
	v.mu.RLock()
	defer v.mu.RUnlock()
	merged := make([]core.Constraint, 0, len(v.global)+len(v.scoped[agentID]))
	merged = append(merged, v.global...)
	merged = append(merged, v.scoped[agentID]...)
	return merged
}

// Validate runs every applicable constraint against the response. Failing
// constraints with a SuggestedFix are applied in severity order (high first,
// so later fixes operate on already-corrected text), replacing the response
// content. Correction is a single pass, not a fixpoint: a fix that would
// re-trigger a different constraint leaves that violation visible in the
// report. A panicking Check is treated as "failed, no fix" and logged.
func (v *Validator) Validate(_ context.Context, resp core.Response, agentID string) (core.Response, Report) {
	constraints := v.applicable(agentID)

	// high severity first so its fix runs before lower severities see the text
	ordered := make([]core.Constraint, len(constraints))
	copy(ordered, constraints)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Severity > ordered[j].Severity })

	report := Report{Checked: len(ordered)}
	for _, c := range ordered {
		passed, panicked := v.runCheck(c, resp)
		if passed {
			continue
		}

		violation := Violation{ConstraintID: c.ID, Name: c.Name, Severity: c.Severity, CheckPanic: panicked}
		if !panicked && c.SuggestedFix != nil {
			resp.Content = c.SuggestedFix(resp)
			violation.Fixed = true
			report.Rewritten = true
			v.logger.Info("constraint fix applied", "constraint", c.ID, "agent_id", agentID, "severity", c.Severity.String())
		} else {
			v.logger.Warn("constraint violated without fix", "constraint", c.ID, "agent_id", agentID, "severity", c.Severity.String())
		}
		report.Violations = append(report.Violations, violation)
	}

	return resp, report
}

// runCheck guards a single Check call against panics; a throwing check must
// not crash the pipeline.
func (v *Validator) runCheck(c core.Constraint, resp core.Response) (passed, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("constraint check panicked", "constraint", c.ID, "panic", r)
			passed = false
			panicked = true
		}
	}()
	if c.Check == nil {
		return true, false
	}
	return c.Check(resp), false
}
