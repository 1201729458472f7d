// Package core provides the foundational domain types and interfaces used by
// Deskmind. It defines the core abstractions for:
//
//   - Sessions (stateful conversational containers with turn history)
//   - Intents (classified purpose of a user message plus extracted entities)
//   - Handlers (deterministic, auditable response logic for one or more intents)
//   - Responses (handler or generation output with routing metadata)
//   - Constraints (declarative business rules checked against responses)
//   - Facts / Episodes (durable semantic and episodic memory records)
//   - Documents / KnowledgeChunks (ingested knowledge for similarity retrieval)
//   - Pluggable stores for sessions, memory and knowledge
//
// The package intentionally keeps implementation concerns (persistence,
// intent rules, concrete agents, model providers) out of scope, exposing
// small interfaces to enable custom backends and extensions.
package core
