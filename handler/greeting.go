package handler

import (
	"context"

	"github.com/deskmind/deskmind/core"
)

// greetingHandler answers greetings deterministically, acknowledging
// returning users when episodic memory shows past interactions.
type greetingHandler struct{}

// NewGreetingHandler constructs the greeting handler.
func NewGreetingHandler() core.Handler { return &greetingHandler{} }

func (h *greetingHandler) Name() string { return "greeting" }

func (h *greetingHandler) Version() string { return "1.0" }

func (h *greetingHandler) Priority() int { return 50 }

func (h *greetingHandler) CanHandle(intent core.Intent) bool {
	return intent.Type == core.IntentGreeting
}

func (h *greetingHandler) Handle(ctx context.Context, message string, intent core.Intent, turnCtx *core.TurnContext) (core.Response, error) {
	if turnCtx != nil && len(turnCtx.Recall.Episodes) > 0 {
		return core.Resolved(h.Name(), "Welcome back! How can I help you with your tickets today?"), nil
	}
	return core.Resolved(h.Name(), "Hello! How can I help you with your tickets today?"), nil
}
