package agent

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/deskmind/deskmind/constraint"
	"github.com/deskmind/deskmind/core"
	"github.com/deskmind/deskmind/fallback"
	"github.com/deskmind/deskmind/handler"
	"github.com/deskmind/deskmind/intent"
	"github.com/deskmind/deskmind/logging"
	"github.com/deskmind/deskmind/memory"
	"github.com/deskmind/deskmind/model"
	"github.com/deskmind/deskmind/rag"
	"github.com/deskmind/deskmind/session"
)

// Options holds dependency and configuration overrides passed to New().
type Options struct {
	Description string

	// SessionStore persists conversations. Defaults to in-memory.
	SessionStore core.SessionStore
	// MemoryStore persists facts and episodes. Defaults to in-memory.
	MemoryStore core.MemoryStore
	// Knowledge is the retrieval engine consulted for knowledge-seeking
	// intents. Nil disables retrieval.
	Knowledge *rag.Engine

	// Model backs the generation fallback. Ignored when Generator is set.
	Model model.Model
	// Generator overrides the fallback bridge built from Model.
	Generator handler.Generator

	// Handlers registered for this agent. Defaults to handler.Defaults().
	Handlers []core.Handler
	// Constraints applied to every outgoing response, in addition to
	// constraint.DefaultRules().
	Constraints []core.Constraint
	// Detector classifies messages. Defaults to intent.NewDetector().
	Detector *intent.Detector

	// OwnedIntents are the intent types CanHandle claims. Empty means all.
	OwnedIntents []core.IntentType
	// ContributeIntents are the intent types CanContribute claims beyond
	// the owned set.
	ContributeIntents []core.IntentType

	// DefaultUserID attributes turns when no user payload is embedded.
	DefaultUserID string

	// RetrievalTopK and RetrievalThreshold tune knowledge retrieval.
	RetrievalTopK      int
	RetrievalThreshold float64

	// FallbackTimeout bounds one generation call.
	FallbackTimeout time.Duration
	// MaxModelCalls caps generation calls over the agent's lifetime.
	MaxModelCalls int
	// Instructions overrides the generation system prompt template.
	Instructions string

	Logger *logging.RuntimeLogger
}

// Agent is the facade implementation of core.Agent: one ProcessMessage call
// runs the entire turn pipeline. Safe for concurrent use; turns on the same
// session are serialized.
type Agent struct {
	name        string
	description string

	sessions   core.SessionStore
	memory     *memory.Manager
	knowledge  *rag.Engine
	detector   *intent.Detector
	registry   *handler.Registry
	router     *handler.Router
	validator  *constraint.Validator
	logger     *logging.RuntimeLogger
	locks      *sessionLocks
	userID     string
	topK       int
	threshold  float64
	owned      map[core.IntentType]bool
	contribute map[core.IntentType]bool
}

// compile-time interface check
var _ core.Agent = (*Agent)(nil)

// New constructs an agent facade with optional overrides.
func New(name string, optFns ...func(o *Options)) *Agent {
	opts := Options{
		Description:        "General support assistant",
		SessionStore:       session.NewInMemoryStore(),
		MemoryStore:        memory.NewInMemoryStore(),
		DefaultUserID:      "anonymous",
		RetrievalTopK:      3,
		RetrievalThreshold: 0.2,
		FallbackTimeout:    fallback.DefaultTimeout,
		Logger:             logging.NewLogger(logging.DefaultLoggerConfig()),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := opts.Logger.WithComponent("agent").WithContext("agent", name)
	kvLogger := logger.Structured()

	detector := opts.Detector
	if detector == nil {
		detector = intent.NewDetector()
	}

	registry := handler.NewRegistry()
	handlers := opts.Handlers
	if handlers == nil {
		handlers = handler.Defaults()
	}
	for _, h := range handlers {
		registry.MustRegister(h)
	}

	generator := opts.Generator
	if generator == nil && opts.Model != nil {
		generator = fallback.NewBridge(opts.Model, func(o *fallback.Options) {
			o.AgentName = name
			o.Timeout = opts.FallbackTimeout
			o.MaxCalls = opts.MaxModelCalls
			o.Logger = kvLogger
			if opts.Instructions != "" {
				o.Instructions = opts.Instructions
			}
		})
	}

	validator := constraint.NewValidator(kvLogger)
	for _, c := range constraint.DefaultRules() {
		validator.Register(c)
	}
	validator.RegisterAgentConstraints(name, opts.Constraints)

	a := &Agent{
		name:        name,
		description: opts.Description,
		sessions:    opts.SessionStore,
		memory:      memory.NewManager(opts.MemoryStore),
		knowledge:   opts.Knowledge,
		detector:    detector,
		registry:    registry,
		router:      handler.NewRouter(registry, generator, func(o *handler.RouterOptions) { o.Logger = kvLogger }),
		validator:   validator,
		logger:      logger,
		locks:       newSessionLocks(),
		userID:      opts.DefaultUserID,
		topK:        opts.RetrievalTopK,
		threshold:   opts.RetrievalThreshold,
	}
	if len(opts.OwnedIntents) > 0 {
		a.owned = make(map[core.IntentType]bool, len(opts.OwnedIntents))
		for _, it := range opts.OwnedIntents {
			a.owned[it] = true
		}
	}
	if len(opts.ContributeIntents) > 0 {
		a.contribute = make(map[core.IntentType]bool, len(opts.ContributeIntents))
		for _, it := range opts.ContributeIntents {
			a.contribute[it] = true
		}
	}
	return a
}

// Name implements core.Agent.
func (a *Agent) Name() string { return a.name }

// Description implements core.Agent.
func (a *Agent) Description() string { return a.description }

// CanHandle implements core.Agent.
func (a *Agent) CanHandle(it core.Intent) bool {
	if a.owned == nil {
		return true
	}
	return a.owned[it.Type]
}

// CanContribute implements core.Agent.
func (a *Agent) CanContribute(it core.Intent) bool {
	if a.CanHandle(it) {
		return true
	}
	return a.contribute != nil && a.contribute[it.Type]
}

// ProcessMessage implements core.Agent. The returned response is always
// validated; a non-nil error alongside a populated response signals a
// persistence failure the caller may surface or retry.
func (a *Agent) ProcessMessage(ctx context.Context, message, sessionID string) (core.Response, error) {
	start := time.Now()

	if strings.TrimSpace(message) == "" {
		return core.Response{}, core.NewValidationInputError("message", "must not be empty")
	}
	if err := ctx.Err(); err != nil {
		return core.Response{}, err
	}
	if sessionID == "" {
		sessionID = core.NewID()
	}

	unlock := a.locks.acquire(sessionID)
	defer unlock()

	log := a.logger.WithAgent(a.name, sessionID)

	sess, err := a.loadOrCreate(ctx, sessionID)
	if err != nil {
		return core.Response{}, err
	}

	cleaned, meta, parseErrs := parseEmbeddedContext(message)
	for _, perr := range parseErrs {
		log.Warn("ignoring malformed embedded context: %v", perr)
	}
	if meta != nil {
		sess.MergeMeta(meta)
	}
	if cleaned == "" {
		// Payload-only message: keep the raw text so detection has input.
		cleaned = message
	}

	userID := sess.UserID
	if userID == "" {
		userID = a.userID
	}

	it := a.detector.Detect(cleaned)
	log.Debug("intent detected intent=%s confidence=%.2f", string(it.Type), it.Confidence)

	turnCtx := &core.TurnContext{AgentID: a.name, Session: sess}

	recall, err := a.memory.Recall(ctx, a.name, userID, cleaned)
	if err != nil {
		log.Warn("memory recall failed, continuing without memory: %v", err)
	} else {
		turnCtx.Recall = recall
	}

	if it.NeedsKnowledge && a.knowledge != nil {
		chunks, err := a.knowledge.Retrieve(ctx, a.name, cleaned, a.topK, a.threshold)
		if err != nil {
			log.Warn("knowledge retrieval failed, continuing without knowledge: %v", err)
		} else {
			turnCtx.Knowledge = chunks
		}
	}

	resp, err := a.router.Route(ctx, cleaned, it, turnCtx)
	if err != nil {
		return core.Response{}, err
	}

	resp, report := a.validator.Validate(ctx, resp, a.name)
	if report.Rewritten {
		log.Info("response rewritten by constraint validation violations=%d", len(report.Violations))
	}
	resp.Metadata.ProcessingTime = time.Since(start)

	log.LogTurn(string(it.Type), resp.Metadata.Handler, resp.Metadata.ProcessingTime, resp.Metadata.FallbackUsed, nil)

	// A cancelled turn is not persisted; the caller already gave up on it.
	if err := ctx.Err(); err != nil {
		return core.Response{}, err
	}

	if err := a.persist(ctx, sess, userID, cleaned, it, resp); err != nil {
		log.ErrorWithStack(err, "turn persisted partially or not at all")
		return resp, err
	}
	return resp, nil
}

// loadOrCreate fetches an existing session or starts a fresh one.
func (a *Agent) loadOrCreate(ctx context.Context, sessionID string) (*core.Session, error) {
	sess, err := a.sessions.Load(ctx, sessionID)
	switch {
	case err == nil:
		return sess, nil
	case errors.Is(err, core.ErrSessionNotFound):
		return core.NewSession(sessionID, a.name, a.userID), nil
	default:
		return nil, core.NewStorageError("session.load", err)
	}
}

// persist appends both turns, saves the session, and records an episode.
func (a *Agent) persist(ctx context.Context, sess *core.Session, userID, message string, it core.Intent, resp core.Response) error {
	now := time.Now().UTC()
	sess.AddTurn(core.Turn{Role: "user", Content: message, Timestamp: now, Intent: string(it.Type)})
	sess.AddTurn(core.Turn{Role: "assistant", Content: resp.Content, Timestamp: now, Intent: string(it.Type), Handler: resp.Metadata.Handler})

	if err := a.sessions.Save(ctx, sess); err != nil {
		return core.NewStorageError("session.save", err)
	}
	if err := a.memory.StoreEpisode(ctx, a.name, userID, memory.Summarize(it, resp)); err != nil {
		return err
	}
	return nil
}

// Remember stores a durable fact scoped to this agent.
func (a *Agent) Remember(ctx context.Context, content string, metadata map[string]any) error {
	return a.memory.StoreFact(ctx, a.name, content, metadata)
}

// Ingest indexes a document into this agent's knowledge base.
func (a *Agent) Ingest(ctx context.Context, doc core.Document) (core.IngestStats, error) {
	if a.knowledge == nil {
		return core.IngestStats{}, errors.New("no knowledge engine configured")
	}
	return a.knowledge.Ingest(ctx, a.name, doc)
}

// Session returns a snapshot of the stored session, if present.
func (a *Agent) Session(ctx context.Context, sessionID string) (*core.Session, error) {
	return a.sessions.Load(ctx, sessionID)
}
