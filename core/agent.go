package core

import "context"

// Agent defines the single message-processing entry point every Deskmind
// agent exposes, plus the collaboration predicates a multi-agent coordinator
// consults.
//
// Implementations must:
//   - Serialize turns for the same session ID
//   - Run turns for distinct sessions fully in parallel
//   - Return a validated Response from every ProcessMessage call, even when a
//     non-nil (storage) error accompanies it
type Agent interface {
	Name() string
	Description() string

	// ProcessMessage runs the full turn pipeline: load session, detect
	// intent, route or fall back, validate, persist, return. The sessionID
	// may be empty, in which case a fresh session is created.
	ProcessMessage(ctx context.Context, message, sessionID string) (Response, error)

	// CanHandle reports whether this agent should own the whole turn.
	CanHandle(intent Intent) bool

	// CanContribute reports whether this agent's knowledge should still be
	// consulted even when another agent owns the turn. Merging contributions
	// is the coordinator caller's responsibility, not this core's.
	CanContribute(intent Intent) bool
}
