// Package memory implements the fact/episode memory system: a process-local
// core.MemoryStore plus a Manager that ranks memory into a deterministic
// RecallBundle for a turn. A durable sqlite-backed store lives in
// storage/sqlite.
package memory
