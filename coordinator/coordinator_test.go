package coordinator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskmind/deskmind/core"
)

type fakeAgent struct {
	name       string
	owns       map[core.IntentType]bool
	contribute map[core.IntentType]bool
	reply      string
	calls      int
}

func (f *fakeAgent) Name() string        { return f.name }
func (f *fakeAgent) Description() string { return f.name }

func (f *fakeAgent) ProcessMessage(ctx context.Context, message, sessionID string) (core.Response, error) {
	f.calls++
	return core.Resolved(f.name, f.reply), nil
}

func (f *fakeAgent) CanHandle(it core.Intent) bool {
	if f.owns == nil {
		return true
	}
	return f.owns[it.Type]
}

func (f *fakeAgent) CanContribute(it core.Intent) bool {
	return f.CanHandle(it) || (f.contribute != nil && f.contribute[it.Type])
}

func TestCoordinatorOwnership(t *testing.T) {
	tasks := &fakeAgent{
		name:  "tasks",
		owns:  map[core.IntentType]bool{core.IntentTaskCreation: true, core.IntentTaskQuery: true},
		reply: "task handled",
	}
	general := &fakeAgent{name: "general", reply: "general handled"}

	c := New()
	require.NoError(t, c.Register(tasks))
	require.NoError(t, c.Register(general))

	owner, err := c.Owner(core.Intent{Type: core.IntentTaskCreation})
	require.NoError(t, err)
	assert.Equal(t, "tasks", owner.Name())

	owner, err = c.Owner(core.Intent{Type: core.IntentGreeting})
	require.NoError(t, err)
	assert.Equal(t, "general", owner.Name())
}

func TestCoordinatorFallsBackToFirstAgent(t *testing.T) {
	only := &fakeAgent{
		name: "narrow",
		owns: map[core.IntentType]bool{core.IntentGreeting: true},
	}
	c := New()
	require.NoError(t, c.Register(only))

	owner, err := c.Owner(core.Intent{Type: core.IntentWorkload})
	require.NoError(t, err)
	assert.Equal(t, "narrow", owner.Name())
}

func TestCoordinatorRejectsDuplicatesAndEmpty(t *testing.T) {
	c := New()
	require.NoError(t, c.Register(&fakeAgent{name: "a"}))
	assert.Error(t, c.Register(&fakeAgent{name: "a"}))
	assert.Error(t, c.Register(nil))

	empty := New()
	_, err := empty.Owner(core.UnknownIntent("hi"))
	assert.Error(t, err)
}

func TestCoordinatorProcessGathersContributions(t *testing.T) {
	tasks := &fakeAgent{
		name:  "tasks",
		owns:  map[core.IntentType]bool{core.IntentTaskCreation: true},
		reply: "task created",
	}
	kb := &fakeAgent{
		name:       "knowledge",
		owns:       map[core.IntentType]bool{core.IntentHowTo: true},
		contribute: map[core.IntentType]bool{core.IntentTaskCreation: true},
		reply:      "related docs",
	}

	c := New()
	require.NoError(t, c.Register(tasks))
	require.NoError(t, c.Register(kb))

	result, err := c.Process(context.Background(), "create a task for the login bug", "sess-1")
	require.NoError(t, err)

	assert.Equal(t, "tasks", result.Owner)
	assert.Equal(t, core.IntentTaskCreation, result.Intent.Type)
	assert.Equal(t, "task created", result.Response.Content)
	require.Len(t, result.Contributions, 1)
	assert.Equal(t, "knowledge", result.Contributions[0].Agent)
	assert.Equal(t, "related docs", result.Contributions[0].Response.Content)
}

func TestCoordinatorProcessNoContributors(t *testing.T) {
	general := &fakeAgent{name: "general", reply: "done"}
	c := New()
	require.NoError(t, c.Register(general))

	result, err := c.Process(context.Background(), "hello", "sess-1")
	require.NoError(t, err)
	assert.Empty(t, result.Contributions)
	assert.Equal(t, 1, general.calls)
}
