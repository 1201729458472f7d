package core

import "github.com/google/uuid"

// NewID generates a new unique identifier for sessions, facts, episodes and
// other records needing stable correlation.
func NewID() string { return uuid.NewString() }
