// Package session houses concrete implementations of the core.SessionStore.
// The interface itself (and the Session struct) live in the core package to
// centralize domain contracts. Keeping only implementations here prevents
// higher level packages (agents, coordinator) from depending on concrete
// storage.
//
// A durable sqlite-backed store lives in storage/sqlite; add additional
// backends (Redis, Postgres, Firestore, etc.) without changing any calling
// code – only the wiring layer needs to decide which implementation to
// instantiate.
package session
