package fallback

import (
	"fmt"
	"sort"
	"strings"

	"github.com/deskmind/deskmind/core"
	"github.com/deskmind/deskmind/internal/util"
)

// defaultInstructions is the system prompt template rendered per turn.
// Keep it short; the structured context sections are appended separately.
const defaultInstructions = `You are {{.agent_name | default "a support assistant"}}, a helpful assistant for a ticketing and support workspace.
Answer concisely and factually. If you are not sure, say so instead of inventing details.
Never promise destructive actions (deleting, refunding, reassigning) without explicit confirmation.`

// assemblePrompt renders the system instructions and appends the context
// sections in a fixed order so identical inputs produce identical prompts.
func assemblePrompt(instructions, agentName string, hints map[string]string, turnCtx *core.TurnContext) (string, error) {
	state := map[string]any{
		"agent_name": agentName,
	}
	rendered, err := util.RenderTemplate(instructions, state)
	if err != nil {
		return "", fmt.Errorf("render instructions: %w", err)
	}

	var b strings.Builder
	b.WriteString(rendered)

	if turnCtx != nil {
		if len(turnCtx.Recall.Facts) > 0 {
			b.WriteString("\n\nKnown facts:\n")
			for _, f := range turnCtx.Recall.Facts {
				fmt.Fprintf(&b, "- %s\n", f.Content)
			}
		}
		if len(turnCtx.Recall.Episodes) > 0 {
			b.WriteString("\nPast interactions with this user:\n")
			for _, e := range turnCtx.Recall.Episodes {
				fmt.Fprintf(&b, "- %s\n", e.Summary)
			}
		}
		if len(turnCtx.Knowledge) > 0 {
			b.WriteString("\nRelevant documentation:\n")
			for _, c := range turnCtx.Knowledge {
				fmt.Fprintf(&b, "- %s\n", c.Text)
			}
		}
		if turnCtx.Session != nil && len(turnCtx.Session.Metadata) > 0 {
			keys := make([]string, 0, len(turnCtx.Session.Metadata))
			for k := range turnCtx.Session.Metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			b.WriteString("\nConversation context:\n")
			for _, k := range keys {
				fmt.Fprintf(&b, "- %s: %s\n", k, string(turnCtx.Session.Metadata[k]))
			}
		}
	}

	if len(hints) > 0 {
		keys := make([]string, 0, len(hints))
		for k := range hints {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\nStructured signals from upstream processing (respect these):\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, hints[k])
		}
	}

	return b.String(), nil
}
