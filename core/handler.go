package core

import "context"

// Handler defines the interface for deterministic, auditable response logic
// covering one or more intents. Handlers are stateless and registered once
// per agent instance; ordering across handlers is total (priority descending,
// registration order as tiebreak).
//
// Handler implementations should:
//   - Keep CanHandle cheap and side-effect free
//   - Return DeferToGeneration (with hints) rather than guessing
//   - Be thread-safe: Handle may run for many sessions concurrently
type Handler interface {
	// Name returns the unique identifier for this handler.
	Name() string

	// Version identifies the handler revision for auditing.
	Version() string

	// Priority orders handlers; higher runs first.
	Priority() int

	// CanHandle reports whether this handler owns messages of the given intent.
	CanHandle(intent Intent) bool

	// Handle produces a response for the message. Returning a deferred
	// response (or an empty content) passes control to the generation
	// fallback with this response's hints preserved.
	Handle(ctx context.Context, message string, intent Intent, turnCtx *TurnContext) (Response, error)
}

// TurnContext bundles the per-turn context a handler (or the generation
// fallback) may consult: the session, recalled memory and retrieved
// knowledge. Fields are read-only from a handler's perspective except
// Session metadata, which handlers may update through its methods.
type TurnContext struct {
	AgentID   string
	Session   *Session
	Recall    RecallBundle
	Knowledge []ScoredChunk
}
