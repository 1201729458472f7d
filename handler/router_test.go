package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskmind/deskmind/core"
)

type stubGenerator struct {
	reply string
	calls int
	hints map[string]string
}

func (g *stubGenerator) Generate(ctx context.Context, message string, hints map[string]string, turnCtx *core.TurnContext) (core.Response, error) {
	g.calls++
	g.hints = hints
	resp := core.Response{
		Content:  g.reply,
		Metadata: core.ResponseMetadata{Handler: "generation_fallback", FallbackUsed: true},
	}
	resp.MergeHints(hints)
	return resp, nil
}

func TestRouteFirstCapableHandlerWins(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubHandler{name: "first", priority: 90, accepts: core.IntentGreeting}))
	require.NoError(t, r.Register(&stubHandler{name: "second", priority: 10, accepts: core.IntentGreeting}))

	gen := &stubGenerator{reply: "generated"}
	router := NewRouter(r, gen)

	resp, err := router.Route(context.Background(), "hi", core.Intent{Type: core.IntentGreeting, Confidence: 0.8}, nil)
	require.NoError(t, err)
	assert.Equal(t, "handled by first", resp.Content)
	assert.Equal(t, "first", resp.Metadata.Handler)
	assert.Equal(t, 0.8, resp.Metadata.Confidence)
	assert.Zero(t, gen.calls)
}

func TestRouteNoHandlerFallsBack(t *testing.T) {
	gen := &stubGenerator{reply: "generated"}
	router := NewRouter(NewRegistry(), gen)

	resp, err := router.Route(context.Background(), "tell me something", core.UnknownIntent("tell me something"), nil)
	require.NoError(t, err)
	assert.Equal(t, "generated", resp.Content)
	assert.True(t, resp.Metadata.FallbackUsed)
	assert.Equal(t, 1, gen.calls)
}

func TestRouteDeferredHintsSurviveFallback(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewTaskCreationHandler()))

	gen := &stubGenerator{reply: "Sure, I'll set that up for you."}
	router := NewRouter(r, gen)

	intent := core.Intent{
		Type:       core.IntentTaskCreation,
		Confidence: 0.9,
		Entities:   map[string]string{"assignee": "John", "priority": "high"},
		Message:    "create a task for John, high priority",
	}
	resp, err := router.Route(context.Background(), intent.Message, intent, nil)
	require.NoError(t, err)

	assert.Equal(t, "Sure, I'll set that up for you.", resp.Content)
	assert.Equal(t, "John", resp.Hints["assignee"])
	assert.Equal(t, "high", resp.Hints["priority"])
	assert.Equal(t, "high", resp.Metadata.Extra["priority"])
	assert.Equal(t, "task_creation", resp.Metadata.Extra["deferred_by"])
	assert.Equal(t, map[string]string{
		"action": "create_task", "assignee": "John", "priority": "high",
	}, gen.hints)
}

func TestRouteHandlerErrorEscalates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubHandler{
		name: "broken", priority: 90, accepts: core.IntentGreeting,
		handle: func(ctx context.Context, message string, intent core.Intent, turnCtx *core.TurnContext) (core.Response, error) {
			return core.Response{}, errors.New("boom")
		},
	}))

	gen := &stubGenerator{reply: "recovered"}
	router := NewRouter(r, gen)

	intent := core.Intent{Type: core.IntentGreeting, Entities: map[string]string{"assignee": "Maria"}}
	resp, err := router.Route(context.Background(), "hi", intent, nil)
	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Content)
	assert.Equal(t, "broken", resp.Metadata.Extra["deferred_by"])
	// the intent's extracted entities still reach the generator
	assert.Equal(t, map[string]string{"assignee": "Maria"}, gen.hints)
}

func TestRouteEmptyContentTreatedAsDeferral(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubHandler{
		name: "silent", priority: 90, accepts: core.IntentGreeting,
		handle: func(ctx context.Context, message string, intent core.Intent, turnCtx *core.TurnContext) (core.Response, error) {
			return core.Response{}, nil
		},
	}))

	gen := &stubGenerator{reply: "generated"}
	router := NewRouter(r, gen)

	resp, err := router.Route(context.Background(), "hi", core.Intent{Type: core.IntentGreeting}, nil)
	require.NoError(t, err)
	assert.Equal(t, "generated", resp.Content)
}

func TestRouteWithoutGenerator(t *testing.T) {
	router := NewRouter(NewRegistry(), nil)

	resp, err := router.Route(context.Background(), "hi", core.UnknownIntent("hi"), nil)
	require.NoError(t, err)
	assert.Equal(t, noGenerationReply, resp.Content)
	assert.True(t, resp.Metadata.FallbackUsed)
}

func TestBuiltinCalculation(t *testing.T) {
	h := NewCalculationHandler()

	tests := []struct {
		message string
		want    string
	}{
		{"what is 2 + 2?", "2 + 2 = 4"},
		{"10 / 4", "10 / 4 = 2.5"},
		{"calculate 6 * 7 for me", "6 * 7 = 42"},
	}
	for _, tt := range tests {
		resp, err := h.Handle(context.Background(), tt.message, core.Intent{Type: core.IntentCalculation}, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.want, resp.Content, tt.message)
	}

	resp, err := h.Handle(context.Background(), "what is 8 / 0?", core.Intent{Type: core.IntentCalculation}, nil)
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "divide by zero")

	resp, err = h.Handle(context.Background(), "compute the average latency", core.Intent{Type: core.IntentCalculation}, nil)
	require.NoError(t, err)
	assert.True(t, resp.IsDeferred())
}

func TestBuiltinTaskQueryReadsSessionContext(t *testing.T) {
	sess := core.NewSession("sess-1", "agent-1", "user-1")
	sess.SetMeta("task", []byte(`{"id":"TSK-123","status":"open","assignee":"Dana","priority":"high"}`))

	h := NewTaskQueryHandler()
	resp, err := h.Handle(context.Background(), "what's the status?", core.Intent{Type: core.IntentTaskQuery}, &core.TurnContext{Session: sess})
	require.NoError(t, err)
	assert.Equal(t, "Task TSK-123 is currently open and assigned to Dana with high priority.", resp.Content)

	// No task in context: defers with a hint naming the gap.
	resp, err = h.Handle(context.Background(), "what's the status?", core.Intent{Type: core.IntentTaskQuery}, &core.TurnContext{Session: core.NewSession("sess-1", "agent-1", "user-1")})
	require.NoError(t, err)
	assert.True(t, resp.IsDeferred())
	assert.Equal(t, "task_data", resp.Hints["missing"])
}

func TestBuiltinWorkload(t *testing.T) {
	sess := core.NewSession("sess-1", "agent-1", "user-1")
	sess.SetMeta("workload", []byte(`{"open":5,"closed":12,"overdue":2}`))

	h := NewWorkloadHandler()
	resp, err := h.Handle(context.Background(), "how busy am I?", core.Intent{Type: core.IntentWorkload}, &core.TurnContext{Session: sess})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "5 open")
	assert.Contains(t, resp.Content, "2 are overdue")
}

func TestBuiltinHowToUsesKnowledge(t *testing.T) {
	h := NewHowToHandler()

	strong := &core.TurnContext{Knowledge: []core.ScoredChunk{
		{KnowledgeChunk: core.KnowledgeChunk{Text: "Go to Settings > Security and press Reset."}, Score: 0.92},
	}}
	resp, err := h.Handle(context.Background(), "how do I reset?", core.Intent{Type: core.IntentHowTo}, strong)
	require.NoError(t, err)
	assert.Equal(t, "Go to Settings > Security and press Reset.", resp.Content)

	weak := &core.TurnContext{Knowledge: []core.ScoredChunk{
		{KnowledgeChunk: core.KnowledgeChunk{Text: "vaguely related"}, Score: 0.3},
	}}
	resp, err = h.Handle(context.Background(), "how do I reset?", core.Intent{Type: core.IntentHowTo}, weak)
	require.NoError(t, err)
	assert.True(t, resp.IsDeferred())
}
