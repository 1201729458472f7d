// Package logging provides a minimal logging interface and adapters for Deskmind.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the runtime and agents use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - RuntimeLogger with contextual helpers (agent, session) and domain
//     specific helpers for handlers, model calls and turns
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	a := agent.New("assistant", func(o *agent.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
