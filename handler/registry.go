package handler

import (
	"fmt"
	"sort"
	"sync"

	"github.com/deskmind/deskmind/core"
)

// Registry holds the handlers available to one agent and exposes them in
// dispatch order: priority descending, registration order as tiebreak.
// Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers []core.Handler
	byName   map[string]core.Handler
	ordered  []core.Handler // rebuilt on registration
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]core.Handler)}
}

// Register adds a handler. Names must be unique.
func (r *Registry) Register(h core.Handler) error {
	if h == nil {
		return fmt.Errorf("handler must not be nil")
	}
	if h.Name() == "" {
		return fmt.Errorf("handler name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[h.Name()]; exists {
		return fmt.Errorf("handler %q already registered", h.Name())
	}

	r.byName[h.Name()] = h
	r.handlers = append(r.handlers, h)

	ordered := make([]core.Handler, len(r.handlers))
	copy(ordered, r.handlers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() > ordered[j].Priority()
	})
	r.ordered = ordered

	return nil
}

// MustRegister registers a handler and panics on error. For wiring code.
func (r *Registry) MustRegister(h core.Handler) {
	if err := r.Register(h); err != nil {
		panic(err)
	}
}

// Get returns a handler by name.
func (r *Registry) Get(name string) (core.Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byName[name]
	return h, ok
}

// Ordered returns handlers in dispatch order.
func (r *Registry) Ordered() []core.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.Handler, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}
