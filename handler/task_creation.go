package handler

import (
	"context"

	"github.com/deskmind/deskmind/core"
)

// taskCreationHandler extracts structured task attributes (assignee,
// priority) from the classified message and defers to generation with those
// attributes as hints. Phrasing the confirmation is generative work; the
// structured signals must survive it.
type taskCreationHandler struct{}

// NewTaskCreationHandler constructs the task creation handler.
func NewTaskCreationHandler() core.Handler { return &taskCreationHandler{} }

func (h *taskCreationHandler) Name() string { return "task_creation" }

func (h *taskCreationHandler) Version() string { return "1.0" }

func (h *taskCreationHandler) Priority() int { return 90 }

func (h *taskCreationHandler) CanHandle(intent core.Intent) bool {
	return intent.Type == core.IntentTaskCreation
}

func (h *taskCreationHandler) Handle(ctx context.Context, message string, intent core.Intent, turnCtx *core.TurnContext) (core.Response, error) {
	hints := map[string]string{"action": "create_task"}
	if assignee, ok := intent.Entities["assignee"]; ok {
		hints["assignee"] = assignee
	}
	if priority, ok := intent.Entities["priority"]; ok {
		hints["priority"] = priority
	}
	return core.DeferToGeneration(h.Name(), hints), nil
}
