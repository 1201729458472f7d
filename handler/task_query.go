package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deskmind/deskmind/core"
)

// taskQueryHandler answers questions about a task already present in the
// session context (typically merged in from an embedded payload such as a
// ticket reference). Without task data it defers with a hint naming what
// is missing.
type taskQueryHandler struct{}

// NewTaskQueryHandler constructs the task query handler.
func NewTaskQueryHandler() core.Handler { return &taskQueryHandler{} }

func (h *taskQueryHandler) Name() string { return "task_query" }

func (h *taskQueryHandler) Version() string { return "1.0" }

func (h *taskQueryHandler) Priority() int { return 70 }

func (h *taskQueryHandler) CanHandle(intent core.Intent) bool {
	return intent.Type == core.IntentTaskQuery
}

func (h *taskQueryHandler) Handle(ctx context.Context, message string, intent core.Intent, turnCtx *core.TurnContext) (core.Response, error) {
	if turnCtx == nil || turnCtx.Session == nil {
		return core.DeferToGeneration(h.Name(), map[string]string{"missing": "task_data"}), nil
	}

	raw, ok := turnCtx.Session.GetMeta("task")
	if !ok {
		return core.DeferToGeneration(h.Name(), map[string]string{"missing": "task_data"}), nil
	}

	var task map[string]any
	if err := json.Unmarshal(raw, &task); err != nil {
		return core.DeferToGeneration(h.Name(), map[string]string{"missing": "task_data"}), nil
	}

	var parts []string
	if id, ok := task["id"].(string); ok && id != "" {
		parts = append(parts, fmt.Sprintf("Task %s", id))
	} else {
		parts = append(parts, "This task")
	}
	if status, ok := task["status"].(string); ok && status != "" {
		parts = append(parts, fmt.Sprintf("is currently %s", status))
	}
	if assignee, ok := task["assignee"].(string); ok && assignee != "" {
		parts = append(parts, fmt.Sprintf("and assigned to %s", assignee))
	}
	if priority, ok := task["priority"].(string); ok && priority != "" {
		parts = append(parts, fmt.Sprintf("with %s priority", priority))
	}

	if len(parts) == 1 {
		return core.DeferToGeneration(h.Name(), map[string]string{"missing": "task_data"}), nil
	}
	return core.Resolved(h.Name(), strings.Join(parts, " ")+"."), nil
}
