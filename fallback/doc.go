// Package fallback bridges unresolved turns to a generative model. The
// bridge assembles a prompt from the session, recalled memory, retrieved
// knowledge and handler hints, enforces a per-call timeout and a global
// call budget, and degrades to a safe canned reply when generation fails.
package fallback
