package fallback

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskmind/deskmind/core"
	"github.com/deskmind/deskmind/model"
)

type failingModel struct{ delay time.Duration }

func (f *failingModel) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	respCh := make(chan model.Response)
	errCh := make(chan error, 1)
	go func() {
		defer close(respCh)
		defer close(errCh)
		if f.delay > 0 {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case <-time.After(f.delay):
			}
		}
		errCh <- errors.New("provider unavailable")
	}()
	return respCh, errCh
}

func (f *failingModel) Info() model.Info {
	return model.Info{Name: "failing", Provider: "test"}
}

func TestBridgeGenerate(t *testing.T) {
	mock := model.NewMockModel("mock", "mock")
	mock.AddResponse("how do I reset my password?", "Open Settings and choose Reset Password.")

	bridge := NewBridge(mock)

	resp, err := bridge.Generate(context.Background(), "how do I reset my password?", nil, &core.TurnContext{})
	require.NoError(t, err)
	assert.Equal(t, "Open Settings and choose Reset Password.", resp.Content)
	assert.True(t, resp.Metadata.FallbackUsed)
	assert.Equal(t, "generation_fallback", resp.Metadata.Handler)
	assert.Equal(t, 1, bridge.CallCount())
}

func TestBridgePreservesHints(t *testing.T) {
	mock := model.NewMockModel("mock", "mock")
	mock.AddResponse("create a task", "Sure, I can set that up.")

	bridge := NewBridge(mock)

	hints := map[string]string{"priority": "high", "assignee": "John"}
	resp, err := bridge.Generate(context.Background(), "create a task", hints, &core.TurnContext{})
	require.NoError(t, err)

	assert.Equal(t, "high", resp.Hints["priority"])
	assert.Equal(t, "John", resp.Metadata.Extra["assignee"])
}

func TestBridgeSafeReplyOnFailure(t *testing.T) {
	bridge := NewBridge(&failingModel{})

	resp, err := bridge.Generate(context.Background(), "anything", nil, &core.TurnContext{})
	require.NoError(t, err)
	assert.Equal(t, DefaultSafeReply, resp.Content)
	assert.Equal(t, "true", resp.Metadata.Extra["degraded"])
}

func TestBridgeTimeout(t *testing.T) {
	bridge := NewBridge(&failingModel{delay: 200 * time.Millisecond}, func(o *Options) {
		o.Timeout = 20 * time.Millisecond
	})

	start := time.Now()
	resp, err := bridge.Generate(context.Background(), "slow question", nil, &core.TurnContext{})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
	assert.Equal(t, DefaultSafeReply, resp.Content)
}

func TestBridgeCallBudget(t *testing.T) {
	mock := model.NewMockModel("mock", "mock")
	mock.AddResponse("hi", "hello")

	bridge := NewBridge(mock, func(o *Options) {
		o.MaxCalls = 1
	})

	first, err := bridge.Generate(context.Background(), "hi", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", first.Content)

	second, err := bridge.Generate(context.Background(), "hi", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSafeReply, second.Content)
}

func TestBridgeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bridge := NewBridge(model.NewMockModel("mock", "mock"))
	_, err := bridge.Generate(ctx, "hi", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPromptAssemblyIsDeterministic(t *testing.T) {
	turnCtx := &core.TurnContext{
		Recall: core.RecallBundle{
			Facts: []core.Fact{{Content: "user prefers email updates"}},
		},
		Knowledge: []core.ScoredChunk{
			{KnowledgeChunk: core.KnowledgeChunk{Text: "Tickets close after 7 days of inactivity."}, Score: 0.9},
		},
	}
	hints := map[string]string{"b_key": "2", "a_key": "1"}

	first, err := assemblePrompt(defaultInstructions, "DeskMind", hints, turnCtx)
	require.NoError(t, err)
	second, err := assemblePrompt(defaultInstructions, "DeskMind", hints, turnCtx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "user prefers email updates")
	assert.Contains(t, first, "Tickets close after 7 days of inactivity.")
	assert.Less(t, strings.Index(first, "a_key"), strings.Index(first, "b_key"))
}
