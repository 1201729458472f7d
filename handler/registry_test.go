package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskmind/deskmind/core"
)

type stubHandler struct {
	name     string
	priority int
	accepts  core.IntentType
	handle   func(ctx context.Context, message string, intent core.Intent, turnCtx *core.TurnContext) (core.Response, error)
}

func (s *stubHandler) Name() string    { return s.name }
func (s *stubHandler) Version() string { return "test" }
func (s *stubHandler) Priority() int   { return s.priority }

func (s *stubHandler) CanHandle(intent core.Intent) bool {
	return intent.Type == s.accepts
}

func (s *stubHandler) Handle(ctx context.Context, message string, intent core.Intent, turnCtx *core.TurnContext) (core.Response, error) {
	if s.handle != nil {
		return s.handle(ctx, message, intent, turnCtx)
	}
	return core.Resolved(s.name, "handled by "+s.name), nil
}

func TestRegistryOrdering(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubHandler{name: "low", priority: 10}))
	require.NoError(t, r.Register(&stubHandler{name: "high", priority: 90}))
	require.NoError(t, r.Register(&stubHandler{name: "mid-a", priority: 50}))
	require.NoError(t, r.Register(&stubHandler{name: "mid-b", priority: 50}))

	ordered := r.Ordered()
	names := make([]string, len(ordered))
	for i, h := range ordered {
		names[i] = h.Name()
	}
	// Equal priorities keep registration order.
	assert.Equal(t, []string{"high", "mid-a", "mid-b", "low"}, names)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubHandler{name: "dup", priority: 1}))
	assert.Error(t, r.Register(&stubHandler{name: "dup", priority: 2}))
	assert.Equal(t, 1, r.Len())
}

func TestRegistryRejectsInvalid(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(&stubHandler{name: ""}))
}
