// Package coordinator routes turns across a fleet of agents. Each message
// is classified once, the owning agent runs the turn, and agents that can
// still contribute are consulted concurrently so their context reaches the
// caller alongside the primary response.
package coordinator
