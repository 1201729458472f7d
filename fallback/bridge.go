package fallback

import (
	"context"
	"time"

	"github.com/deskmind/deskmind/core"
	"github.com/deskmind/deskmind/logging"
	"github.com/deskmind/deskmind/model"
)

// Options configures the generation bridge.
type Options struct {
	// Instructions is the system prompt template. Supports the template
	// helpers from internal/util (default, upper, lower, title, join).
	Instructions string

	// AgentName is injected into the instructions template.
	AgentName string

	// Timeout bounds one generation call. Zero means DefaultTimeout.
	Timeout time.Duration

	// MaxCalls caps model invocations over the bridge's lifetime. Zero
	// means unlimited.
	MaxCalls int

	// HistoryTurns limits how many recent turns ride in the prompt.
	HistoryTurns int

	// SafeReply is returned when generation fails or the budget is spent.
	SafeReply string

	Logger logging.Logger
}

// DefaultTimeout bounds a single model call when none is configured.
const DefaultTimeout = 20 * time.Second

// DefaultSafeReply is the degraded answer substituted on generation failure.
const DefaultSafeReply = "I'm sorry, I can't generate a full answer right now. Could you rephrase, or try again in a moment?"

// Bridge routes deferred turns to a generative model and converts the model
// output back into a runtime response, preserving handler hints.
type Bridge struct {
	model   model.Model
	opts    Options
	limiter *core.ModelLimiter
	logger  logging.Logger
}

// NewBridge creates a generation bridge over the given model.
func NewBridge(m model.Model, optFns ...func(o *Options)) *Bridge {
	opts := Options{
		Instructions: defaultInstructions,
		Timeout:      DefaultTimeout,
		HistoryTurns: 10,
		SafeReply:    DefaultSafeReply,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.SafeReply == "" {
		opts.SafeReply = DefaultSafeReply
	}

	return &Bridge{
		model:   m,
		opts:    opts,
		limiter: core.NewModelLimiter(opts.MaxCalls),
		logger:  opts.Logger,
	}
}

// Generate produces a response for a turn no handler resolved. Hints from a
// deferring handler are folded into both the prompt and the final response
// metadata. Model failures and timeouts degrade to the safe reply; the only
// error returned is cancellation of the parent context.
func (b *Bridge) Generate(ctx context.Context, message string, hints map[string]string, turnCtx *core.TurnContext) (core.Response, error) {
	if err := ctx.Err(); err != nil {
		return core.Response{}, err
	}

	if err := b.limiter.Increment(); err != nil {
		b.logger.Warn("model call budget exhausted", "error", err)
		return b.safeResponse(hints), nil
	}

	instructions, err := assemblePrompt(b.opts.Instructions, b.opts.AgentName, hints, turnCtx)
	if err != nil {
		b.logger.Error("prompt assembly failed", "error", err)
		return b.safeResponse(hints), nil
	}

	req := model.Request{
		Instructions: instructions,
		Messages:     b.buildMessages(message, turnCtx),
	}

	callCtx, cancel := context.WithTimeout(ctx, b.opts.Timeout)
	defer cancel()

	start := time.Now()
	text, usage, genErr := b.collect(callCtx, req)
	dur := time.Since(start)

	if genErr != nil {
		if ctx.Err() != nil {
			return core.Response{}, ctx.Err()
		}
		gerr := &core.GenerationError{Provider: b.model.Info().Provider, Err: genErr}
		b.logger.Error("generation failed, substituting safe reply",
			"provider", b.model.Info().Provider, "duration", dur, "error", gerr)
		return b.safeResponse(hints), nil
	}

	b.logger.Debug("generation completed",
		"provider", b.model.Info().Provider, "duration", dur, "tokens", usage)

	resp := core.Response{
		Content: text,
		Metadata: core.ResponseMetadata{
			Handler:        "generation_fallback",
			FallbackUsed:   true,
			ProcessingTime: dur,
		},
	}
	resp.MergeHints(hints)
	return resp, nil
}

// CallCount reports how many model invocations the bridge has made.
func (b *Bridge) CallCount() int { return b.limiter.Count() }

// collect drains the model channels and accumulates the final text.
func (b *Bridge) collect(ctx context.Context, req model.Request) (string, int, error) {
	respCh, errCh := b.model.Generate(ctx, req)

	var text string
	var tokens int
	for {
		select {
		case <-ctx.Done():
			return "", 0, ctx.Err()
		case err, ok := <-errCh:
			if ok && err != nil {
				return "", 0, err
			}
			errCh = nil
		case resp, ok := <-respCh:
			if !ok {
				if errCh != nil {
					if err, ok := <-errCh; ok && err != nil {
						return "", 0, err
					}
				}
				return text, tokens, nil
			}
			if resp.Partial {
				continue
			}
			text = resp.Text
			if resp.Usage != nil {
				tokens = resp.Usage.TotalTokens
			}
		}
	}
}

// buildMessages converts recent session turns plus the current message into
// the provider-neutral message list, oldest first.
func (b *Bridge) buildMessages(message string, turnCtx *core.TurnContext) []model.Message {
	var msgs []model.Message
	if turnCtx != nil && turnCtx.Session != nil {
		for _, t := range turnCtx.Session.History(b.opts.HistoryTurns) {
			role := t.Role
			if role != "assistant" {
				role = "user"
			}
			msgs = append(msgs, model.Message{Role: role, Content: t.Content})
		}
	}
	msgs = append(msgs, model.Message{Role: "user", Content: message})
	return msgs
}

func (b *Bridge) safeResponse(hints map[string]string) core.Response {
	resp := core.Response{
		Content: b.opts.SafeReply,
		Metadata: core.ResponseMetadata{
			Handler:      "generation_fallback",
			FallbackUsed: true,
			Extra:        map[string]string{"degraded": "true"},
		},
	}
	resp.MergeHints(hints)
	return resp
}
