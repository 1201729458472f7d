// Package model defines the minimal generative-model abstraction the
// fallback bridge drives, plus a deterministic MockModel for tests and
// examples. Provider adapters live in sub-packages (openai, anthropic) so
// the dependency surface stays opt-in.
package model
