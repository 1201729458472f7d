// Package deskmind provides a high-level façade over the agent runtime and
// its pluggable services (sessions, memory, knowledge, models & logging)
// enabling rapid construction of conversational support agents. Most
// applications interact with this package by:
//  1. Creating a Deskmind via New() (optionally overriding default in-memory services)
//  2. Registering one or more agents (prebuilt or custom facades)
//  3. Sending user messages with Chat, or the full fleet with Process
//
// The façade delegates dispatch to coordinator.Coordinator while keeping
// setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply the
// SQLite-backed stores and a real model provider.
package deskmind

import (
	"context"

	"github.com/deskmind/deskmind/coordinator"
	"github.com/deskmind/deskmind/core"
	"github.com/deskmind/deskmind/intent"
	"github.com/deskmind/deskmind/logging"
)

// Options configures the Deskmind instance.
type Options struct {
	// Coordinator configuration (contribution concurrency).
	CoordinatorConfig coordinator.Config

	// Detector classifies messages before ownership resolution. Defaults
	// to the stock keyword detector.
	Detector *intent.Detector

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Deskmind is the high-level façade aggregating the coordinator and services.
type Deskmind struct {
	opts        Options
	coordinator *coordinator.Coordinator
}

// New creates a new Deskmind instance with optional overrides.
func New(optFns ...func(o *Options)) *Deskmind {
	opts := Options{
		CoordinatorConfig: coordinator.DefaultConfig,
		Logger:            logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	c := coordinator.New(func(o *coordinator.Options) {
		o.Config = opts.CoordinatorConfig
		o.Detector = opts.Detector
		o.Logger = opts.Logger
	})

	return &Deskmind{opts: opts, coordinator: c}
}

// RegisterAgent adds an agent to the fleet.
func (d *Deskmind) RegisterAgent(a core.Agent) error { return d.coordinator.Register(a) }

// Agent returns a registered agent by name.
func (d *Deskmind) Agent(name string) (core.Agent, bool) { return d.coordinator.Agent(name) }

// Chat runs one turn against a specific agent and returns its response.
func (d *Deskmind) Chat(ctx context.Context, agentName, message, sessionID string) (core.Response, error) {
	a, ok := d.coordinator.Agent(agentName)
	if !ok {
		return core.Response{}, core.NewValidationInputError("agent", "no agent named "+agentName)
	}
	return a.ProcessMessage(ctx, message, sessionID)
}

// Process runs one turn across the fleet: intent detection picks the owning
// agent, and agents that can contribute are consulted alongside it.
func (d *Deskmind) Process(ctx context.Context, message, sessionID string) (coordinator.Result, error) {
	return d.coordinator.Process(ctx, message, sessionID)
}
