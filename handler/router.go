package handler

import (
	"context"
	"time"

	"github.com/deskmind/deskmind/core"
	"github.com/deskmind/deskmind/logging"
)

// Generator produces a response for turns no handler resolved. Implemented
// by fallback.Bridge; the indirection keeps this package model-agnostic.
type Generator interface {
	Generate(ctx context.Context, message string, hints map[string]string, turnCtx *core.TurnContext) (core.Response, error)
}

// noGenerationReply is used when no generator is wired and a turn defers.
const noGenerationReply = "I'm not sure how to help with that yet. Could you rephrase?"

// RouterOptions configures the response router.
type RouterOptions struct {
	Logger logging.Logger
}

// Router dispatches a classified turn across the registry. The first handler
// whose CanHandle accepts the intent owns the turn; a deferred result, a
// handler error, or the absence of a capable handler escalates to the
// generator with any handler-derived hints preserved.
type Router struct {
	registry  *Registry
	generator Generator
	logger    logging.Logger
}

// NewRouter creates a router over a registry and an optional generator.
func NewRouter(registry *Registry, generator Generator, optFns ...func(o *RouterOptions)) *Router {
	opts := RouterOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Router{registry: registry, generator: generator, logger: opts.Logger}
}

// Route resolves one turn. The returned response always carries metadata
// identifying who produced it.
func (r *Router) Route(ctx context.Context, message string, intent core.Intent, turnCtx *core.TurnContext) (core.Response, error) {
	if err := ctx.Err(); err != nil {
		return core.Response{}, err
	}

	for _, h := range r.registry.Ordered() {
		if !h.CanHandle(intent) {
			continue
		}

		start := time.Now()
		resp, err := h.Handle(ctx, message, intent, turnCtx)
		dur := time.Since(start)

		if err != nil {
			r.logger.Warn("handler failed, escalating to generation",
				"handler", h.Name(), "intent", string(intent.Type), "error", err)
			return r.escalate(ctx, message, h.Name(), intent.Entities, turnCtx)
		}

		if resp.IsDeferred() {
			r.logger.Debug("handler deferred to generation",
				"handler", h.Name(), "intent", string(intent.Type), "hints", len(resp.Hints))
			return r.escalate(ctx, message, h.Name(), resp.Hints, turnCtx)
		}

		if resp.Metadata.Handler == "" {
			resp.Metadata.Handler = h.Name()
		}
		if resp.Metadata.Confidence == 0 {
			resp.Metadata.Confidence = intent.Confidence
		}
		resp.Metadata.ProcessingTime = dur
		return resp, nil
	}

	// No capable handler: the generator owns the turn outright.
	return r.escalate(ctx, message, "", nil, turnCtx)
}

// escalate hands the turn to the generator, recording which handler (if any)
// deferred it. Without a generator a static reply is substituted.
func (r *Router) escalate(ctx context.Context, message, deferredBy string, hints map[string]string, turnCtx *core.TurnContext) (core.Response, error) {
	if r.generator == nil {
		resp := core.Response{
			Content:  noGenerationReply,
			Metadata: core.ResponseMetadata{Handler: "router", FallbackUsed: true},
		}
		resp.MergeHints(hints)
		return resp, nil
	}

	resp, err := r.generator.Generate(ctx, message, hints, turnCtx)
	if err != nil {
		return core.Response{}, err
	}
	if deferredBy != "" {
		if resp.Metadata.Extra == nil {
			resp.Metadata.Extra = make(map[string]string, 1)
		}
		if _, ok := resp.Metadata.Extra["deferred_by"]; !ok {
			resp.Metadata.Extra["deferred_by"] = deferredBy
		}
	}
	return resp, nil
}
