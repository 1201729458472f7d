package handler

import (
	"context"
	"strings"

	"github.com/deskmind/deskmind/core"
)

// howToHandler answers procedural questions directly from retrieved
// knowledge when the top match is confident enough; otherwise it defers,
// leaving the retrieved chunks in the turn context for generation.
type howToHandler struct {
	minScore float64
}

// NewHowToHandler constructs the how-to handler.
func NewHowToHandler() core.Handler { return &howToHandler{minScore: 0.85} }

func (h *howToHandler) Name() string { return "howto" }

func (h *howToHandler) Version() string { return "1.0" }

func (h *howToHandler) Priority() int { return 40 }

func (h *howToHandler) CanHandle(intent core.Intent) bool {
	return intent.Type == core.IntentHowTo || intent.Type == core.IntentInformation
}

func (h *howToHandler) Handle(ctx context.Context, message string, intent core.Intent, turnCtx *core.TurnContext) (core.Response, error) {
	if turnCtx == nil || len(turnCtx.Knowledge) == 0 {
		return core.DeferToGeneration(h.Name(), map[string]string{"topic": "documentation"}), nil
	}

	top := turnCtx.Knowledge[0]
	if top.Score < h.minScore {
		return core.DeferToGeneration(h.Name(), map[string]string{"topic": "documentation"}), nil
	}

	content := strings.TrimSpace(top.Text)
	if content == "" {
		return core.DeferToGeneration(h.Name(), map[string]string{"topic": "documentation"}), nil
	}
	return core.Resolved(h.Name(), content), nil
}
