package constraint

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskmind/deskmind/core"
)

func TestValidator_PassingResponseUntouched(t *testing.T) {
	v := NewValidator(nil)
	v.Register(NoUnilateralDeletePromise())

	resp := core.Resolved("greeting", "Hello! How can I help?")
	out, report := v.Validate(context.Background(), resp, "agent-a")

	assert.Equal(t, resp.Content, out.Content)
	assert.True(t, report.Clean())
	assert.Equal(t, 1, report.Checked)
}

func TestValidator_DeletePromiseCorrected(t *testing.T) {
	v := NewValidator(nil)
	rule := NoUnilateralDeletePromise()
	v.Register(rule)

	resp := core.Response{Content: "Sure, I'll delete that task right away."}
	out, report := v.Validate(context.Background(), resp, "agent-a")

	require.Len(t, report.Violations, 1)
	assert.True(t, report.Violations[0].Fixed)
	assert.True(t, report.Rewritten)
	// the corrected text must itself pass the check after the single pass
	assert.True(t, rule.Check(out))
	assert.NotContains(t, strings.ToLower(out.Content), "i'll delete")
}

func TestValidator_SeverityOrderHighFirst(t *testing.T) {
	v := NewValidator(nil)
	var order []string
	mk := func(id string, sev core.Severity) core.Constraint {
		return core.Constraint{
			ID: id, Name: id, Severity: sev,
			Check: func(core.Response) bool { order = append(order, id); return false },
			SuggestedFix: func(resp core.Response) string {
				return resp.Content + " [" + id + "]"
			},
		}
	}
	v.Register(mk("low", core.SeverityLow))
	v.Register(mk("high", core.SeverityHigh))
	v.Register(mk("medium", core.SeverityMedium))

	out, report := v.Validate(context.Background(), core.Response{Content: "base"}, "a")

	assert.Equal(t, []string{"high", "medium", "low"}, order)
	// later fixes operate on already-corrected text
	assert.Equal(t, "base [high] [medium] [low]", out.Content)
	assert.Len(t, report.Violations, 3)
}

func TestValidator_FailingWithoutFixDoesNotBlock(t *testing.T) {
	v := NewValidator(nil)
	v.Register(NoRefundPromise())

	resp := core.Response{Content: "Don't worry, you will be refunded tomorrow."}
	out, report := v.Validate(context.Background(), resp, "a")

	assert.Equal(t, resp.Content, out.Content, "no fix means content is delivered as-is")
	require.Len(t, report.Violations, 1)
	assert.False(t, report.Violations[0].Fixed)
}

func TestValidator_AgentScopedPools(t *testing.T) {
	v := NewValidator(nil)
	v.Register(NoRefundPromise())
	v.RegisterAgentConstraints("agent-a", []core.Constraint{NoUnilateralDeletePromise()})

	_, reportA := v.Validate(context.Background(), core.Response{Content: "ok"}, "agent-a")
	assert.Equal(t, 2, reportA.Checked)

	_, reportB := v.Validate(context.Background(), core.Response{Content: "ok"}, "agent-b")
	assert.Equal(t, 1, reportB.Checked, "agent-b only sees the global pool")
}

func TestValidator_PanickingCheckIsFailedNoFix(t *testing.T) {
	v := NewValidator(nil)
	v.Register(core.Constraint{
		ID: "boom", Name: "boom", Severity: core.SeverityLow,
		Check:        func(core.Response) bool { panic("nope") },
		SuggestedFix: func(core.Response) string { return "should never run" },
	})

	out, report := v.Validate(context.Background(), core.Response{Content: "fine"}, "a")

	assert.Equal(t, "fine", out.Content, "fix must not run for a panicking check")
	require.Len(t, report.Violations, 1)
	assert.True(t, report.Violations[0].CheckPanic)
	assert.False(t, report.Violations[0].Fixed)
}

// Single-pass behavior: a fix that introduces a violation of a lower-severity
// constraint leaves that residual violation uncorrected (it was checked
// before the fix landed later in the same pass only for lower severities;
// here the trigger runs after, so the residue stays).
func TestValidator_SinglePassLeavesResidualViolations(t *testing.T) {
	v := NewValidator(nil)
	// high severity fix introduces the word "forbidden"
	v.Register(core.Constraint{
		ID: "rewrite", Name: "rewrite", Severity: core.SeverityHigh,
		Check:        func(resp core.Response) bool { return !strings.Contains(resp.Content, "trigger") },
		SuggestedFix: func(core.Response) string { return "forbidden text" },
	})
	// low severity rule would reject "forbidden", but its check ran against
	// the corrected content in the same single pass, and its fix restores it
	lowSeen := ""
	v.Register(core.Constraint{
		ID: "late", Name: "late", Severity: core.SeverityLow,
		Check: func(resp core.Response) bool {
			lowSeen = resp.Content
			return !strings.Contains(resp.Content, "forbidden")
		},
		SuggestedFix: func(core.Response) string { return "clean text" },
	})

	out, report := v.Validate(context.Background(), core.Response{Content: "trigger"}, "a")

	assert.Equal(t, "forbidden text", lowSeen, "low severity check sees the high fix output")
	assert.Equal(t, "clean text", out.Content)
	assert.Len(t, report.Violations, 2)

	// but: a high fix is never re-validated against the high rule itself;
	// correction is not run to a fixpoint
	v2 := NewValidator(nil)
	v2.Register(core.Constraint{
		ID: "self", Name: "self", Severity: core.SeverityHigh,
		Check:        func(resp core.Response) bool { return !strings.Contains(resp.Content, "bad") },
		SuggestedFix: func(core.Response) string { return "still bad" },
	})
	out2, report2 := v2.Validate(context.Background(), core.Response{Content: "bad"}, "a")
	assert.Equal(t, "still bad", out2.Content, "single pass: the fix's own residue is not re-checked")
	assert.Len(t, report2.Violations, 1)
}
