package coordinator

import (
	"context"
	"fmt"
	"sync"

	"github.com/deskmind/deskmind/core"
	"github.com/deskmind/deskmind/intent"
	"github.com/deskmind/deskmind/logging"
)

// Config defines tuning parameters for the coordinator's behavior.
type Config struct {
	// MaxConcurrentContributions limits how many contributing agents run
	// simultaneously for one turn. Set to 0 for unlimited.
	MaxConcurrentContributions int
}

// DefaultConfig provides production-ready defaults.
var DefaultConfig = Config{
	MaxConcurrentContributions: 4,
}

// Options configures a Coordinator instance.
type Options struct {
	Config   Config
	Detector *intent.Detector
	Logger   logging.Logger
}

// Contribution is the outcome of consulting a secondary agent for a turn.
type Contribution struct {
	Agent    string        `json:"agent"`
	Response core.Response `json:"response"`
	Err      error         `json:"-"`
}

// Result bundles the owning agent's response with secondary contributions.
type Result struct {
	Owner         string         `json:"owner"`
	Intent        core.Intent    `json:"intent"`
	Response      core.Response  `json:"response"`
	Contributions []Contribution `json:"contributions,omitempty"`
}

// Coordinator dispatches messages across registered agents. Registration
// order decides ownership ties: the first registered agent claiming an
// intent owns it. Safe for concurrent use.
type Coordinator struct {
	mu       sync.RWMutex
	agents   []core.Agent
	byName   map[string]core.Agent
	detector *intent.Detector
	cfg      Config
	logger   logging.Logger
}

// New constructs a Coordinator with optional overrides.
func New(optFns ...func(o *Options)) *Coordinator {
	opts := Options{
		Config: DefaultConfig,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Detector == nil {
		opts.Detector = intent.NewDetector()
	}
	return &Coordinator{
		byName:   make(map[string]core.Agent),
		detector: opts.Detector,
		cfg:      opts.Config,
		logger:   opts.Logger,
	}
}

// Register adds an agent to the fleet. Names must be unique.
func (c *Coordinator) Register(a core.Agent) error {
	if a == nil {
		return fmt.Errorf("agent must not be nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.byName[a.Name()]; exists {
		return fmt.Errorf("agent %q already registered", a.Name())
	}
	c.byName[a.Name()] = a
	c.agents = append(c.agents, a)
	return nil
}

// Agent returns a registered agent by name.
func (c *Coordinator) Agent(name string) (core.Agent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.byName[name]
	return a, ok
}

// Owner resolves which agent owns a turn with the given intent: the first
// registered agent whose CanHandle accepts it, else the first agent.
func (c *Coordinator) Owner(it core.Intent) (core.Agent, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.agents) == 0 {
		return nil, fmt.Errorf("no agents registered")
	}
	for _, a := range c.agents {
		if a.CanHandle(it) {
			return a, nil
		}
	}
	return c.agents[0], nil
}

// Contributors returns the agents, in registration order, that can
// contribute to a turn with the given intent without owning it.
func (c *Coordinator) Contributors(it core.Intent, owner string) []core.Agent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []core.Agent
	for _, a := range c.agents {
		if a.Name() == owner {
			continue
		}
		if a.CanContribute(it) {
			out = append(out, a)
		}
	}
	return out
}

// Process classifies the message, runs the owning agent's turn, and gathers
// contributions from the rest of the fleet concurrently. The owner's error
// (if any) is returned; contribution errors ride in their Contribution.
func (c *Coordinator) Process(ctx context.Context, message, sessionID string) (Result, error) {
	it := c.detector.Detect(message)

	owner, err := c.Owner(it)
	if err != nil {
		return Result{}, err
	}

	resp, err := owner.ProcessMessage(ctx, message, sessionID)
	result := Result{
		Owner:    owner.Name(),
		Intent:   it,
		Response: resp,
	}
	if err != nil {
		return result, err
	}

	contributors := c.Contributors(it, owner.Name())
	if len(contributors) == 0 {
		return result, nil
	}

	var sem chan struct{}
	if c.cfg.MaxConcurrentContributions > 0 {
		sem = make(chan struct{}, c.cfg.MaxConcurrentContributions)
	}

	contributions := make([]Contribution, len(contributors))
	var wg sync.WaitGroup
	for i, a := range contributors {
		wg.Add(1)
		go func(i int, a core.Agent) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			// Contributors run against their own session track so they
			// never contend with the owner's conversation state.
			contribSession := sessionID + ":" + a.Name()
			r, cerr := a.ProcessMessage(ctx, message, contribSession)
			contributions[i] = Contribution{Agent: a.Name(), Response: r, Err: cerr}
			if cerr != nil {
				c.logger.Warn("contribution failed", "agent", a.Name(), "error", cerr)
			}
		}(i, a)
	}
	wg.Wait()

	result.Contributions = contributions
	return result, nil
}
