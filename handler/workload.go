package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deskmind/deskmind/core"
)

// workloadHandler summarizes workload figures supplied through session
// context. Without figures it defers, hinting that the analysis type is
// workload so generation can ask for the data it needs.
type workloadHandler struct{}

// NewWorkloadHandler constructs the workload analysis handler.
func NewWorkloadHandler() core.Handler { return &workloadHandler{} }

func (h *workloadHandler) Name() string { return "workload_analysis" }

func (h *workloadHandler) Version() string { return "1.0" }

func (h *workloadHandler) Priority() int { return 60 }

func (h *workloadHandler) CanHandle(intent core.Intent) bool {
	return intent.Type == core.IntentWorkload
}

func (h *workloadHandler) Handle(ctx context.Context, message string, intent core.Intent, turnCtx *core.TurnContext) (core.Response, error) {
	deferred := core.DeferToGeneration(h.Name(), map[string]string{"analysis": "workload"})

	if turnCtx == nil || turnCtx.Session == nil {
		return deferred, nil
	}
	raw, ok := turnCtx.Session.GetMeta("workload")
	if !ok {
		return deferred, nil
	}

	var figures map[string]float64
	if err := json.Unmarshal(raw, &figures); err != nil || len(figures) == 0 {
		return deferred, nil
	}

	open := figures["open"]
	closed := figures["closed"]
	overdue := figures["overdue"]

	content := fmt.Sprintf("You have %.0f open and %.0f closed tickets.", open, closed)
	if overdue > 0 {
		content += fmt.Sprintf(" %.0f are overdue and should be looked at first.", overdue)
	}
	return core.Resolved(h.Name(), content), nil
}
