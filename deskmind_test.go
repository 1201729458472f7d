package deskmind

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskmind/deskmind/agent"
	"github.com/deskmind/deskmind/model"
)

func TestChatRoutesToNamedAgent(t *testing.T) {
	d := New()
	require.NoError(t, d.RegisterAgent(agent.NewGeneralAssistant(func(o *agent.Options) {
		o.Model = model.NewMockModel("mock", "mock")
	})))

	resp, err := d.Chat(context.Background(), "general_assistant", "hello", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Hello! How can I help you with your tickets today?", resp.Content)

	_, err = d.Chat(context.Background(), "nobody", "hello", "sess-1")
	assert.Error(t, err)
}

func TestProcessPicksOwner(t *testing.T) {
	d := New()
	require.NoError(t, d.RegisterAgent(agent.NewTaskCoordinator(func(o *agent.Options) {
		o.Model = model.NewMockModel("mock", "mock")
	})))
	require.NoError(t, d.RegisterAgent(agent.NewGeneralAssistant(func(o *agent.Options) {
		o.Model = model.NewMockModel("mock", "mock")
	})))

	result, err := d.Process(context.Background(), "what is the status of my tasks", "sess-2")
	require.NoError(t, err)
	assert.Equal(t, "task_coordinator", result.Owner)

	result, err = d.Process(context.Background(), "hello", "sess-3")
	require.NoError(t, err)
	assert.Equal(t, "general_assistant", result.Owner)
}
