// Package handler implements the deterministic response layer: a registry
// of prioritized handlers plus a router that dispatches each turn to the
// first capable handler and escalates unresolved turns to the generation
// bridge with hints preserved.
package handler
