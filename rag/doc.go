// Package rag implements the knowledge index: token-aware document chunking,
// pluggable embedding providers and similarity retrieval scoped per agent.
// Ingestion is idempotent by document ID: re-ingesting supersedes prior
// chunks rather than duplicating them.
package rag
