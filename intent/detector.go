// Package intent classifies raw user text into the closed intent set used to
// drive handler dispatch. Classification is keyword based and deterministic:
// when several rules match, the longest matched keyword wins, so adding rules
// never makes existing classifications flap.
package intent

import (
	"regexp"
	"strings"

	"github.com/deskmind/deskmind/core"
)

// rule binds a keyword to the intent it signals. Longer keywords are
// considered more specific and beat shorter matches.
type rule struct {
	keyword string
	intent  core.IntentType
}

// defaultRules covers the stock intent set. Order is irrelevant; specificity
// is decided by keyword length at match time.
var defaultRules = []rule{
	{"hello", core.IntentGreeting},
	{"hi there", core.IntentGreeting},
	{"good morning", core.IntentGreeting},
	{"good afternoon", core.IntentGreeting},
	{"hey", core.IntentGreeting},

	{"create a task", core.IntentTaskCreation},
	{"create task", core.IntentTaskCreation},
	{"new task", core.IntentTaskCreation},
	{"add a task", core.IntentTaskCreation},
	{"assign a task", core.IntentTaskCreation},

	{"task status", core.IntentTaskQuery},
	{"status of", core.IntentTaskQuery},
	{"my tasks", core.IntentTaskQuery},
	{"open tasks", core.IntentTaskQuery},

	{"workload", core.IntentWorkload},
	{"who is busy", core.IntentWorkload},
	{"capacity", core.IntentWorkload},
	{"team utilization", core.IntentWorkload},

	{"calculate", core.IntentCalculation},
	{"how much is", core.IntentCalculation},
	{"what is the sum", core.IntentCalculation},

	{"how do i", core.IntentHowTo},
	{"how to", core.IntentHowTo},
	{"how can i", core.IntentHowTo},

	{"what is", core.IntentInformation},
	{"tell me about", core.IntentInformation},
	{"explain", core.IntentInformation},
}

var (
	assigneeRe = regexp.MustCompile(`(?i)\bfor ([A-Z][a-z]+)\b`)
	priorityRe = regexp.MustCompile(`(?i)\b(low|medium|high|urgent) priority\b|\bpriority[:\s]+(low|medium|high|urgent)\b`)
	arithRe    = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*([-+*/])\s*(-?\d+(?:\.\d+)?)`)
)

// Options configures a Detector.
type Options struct {
	// ExtraRules are matched alongside the defaults, letting an agent extend
	// the vocabulary without touching the closed intent set.
	ExtraRules map[string]core.IntentType
}

// Detector classifies messages. Stateless and safe for concurrent use.
type Detector struct {
	rules []rule
}

// NewDetector constructs a Detector with the stock rule set plus overrides.
func NewDetector(optFns ...func(o *Options)) *Detector {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	rules := make([]rule, len(defaultRules), len(defaultRules)+len(opts.ExtraRules))
	copy(rules, defaultRules)
	for kw, it := range opts.ExtraRules {
		rules = append(rules, rule{keyword: strings.ToLower(kw), intent: it})
	}
	return &Detector{rules: rules}
}

// Detect classifies a message. IntentUnknown is a valid result, never an
// error: it signals that downstream handlers or generation must decide.
func (d *Detector) Detect(message string) core.Intent {
	lower := strings.ToLower(message)

	best := rule{}
	for _, r := range d.rules {
		if containsKeyword(lower, r.keyword) && len(r.keyword) > len(best.keyword) {
			best = r
		}
	}

	// an arithmetic expression wins over generic phrasings such as
	// "what is 2 + 3", and classifies bare expressions with no keyword
	if arithRe.MatchString(message) &&
		(best.keyword == "" || best.intent == core.IntentInformation || best.intent == core.IntentHowTo) {
		best = rule{keyword: arithRe.FindString(message), intent: core.IntentCalculation}
	}

	if best.keyword == "" {
		return core.UnknownIntent(message)
	}

	it := core.Intent{
		Type:       best.intent,
		Confidence: confidence(best.keyword, lower),
		Entities:   extractEntities(best.intent, message),
		Message:    message,
	}

	switch best.intent {
	case core.IntentHowTo, core.IntentInformation:
		it.NeedsKnowledge = true
	case core.IntentTaskCreation, core.IntentTaskQuery, core.IntentWorkload:
		it.NeedsDomainData = true
	}

	return it
}

// containsKeyword reports whether keyword occurs in message on word
// boundaries, so "hey" does not fire inside "they". Both inputs are
// lowercased by the caller.
func containsKeyword(message, keyword string) bool {
	for from := 0; ; {
		i := strings.Index(message[from:], keyword)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(keyword)
		if !wordByteAt(message, start-1) && !wordByteAt(message, end) {
			return true
		}
		from = start + 1
	}
}

func wordByteAt(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// confidence scales with how much of the message the keyword explains,
// floored so any rule hit stays well above the unknown baseline.
func confidence(keyword, lower string) float64 {
	c := 0.6 + 0.4*float64(len(keyword))/float64(len(lower))
	if c > 1.0 {
		c = 1.0
	}
	return c
}

func extractEntities(t core.IntentType, message string) map[string]string {
	entities := map[string]string{}

	if m := assigneeRe.FindStringSubmatch(message); m != nil {
		entities["assignee"] = m[1]
	}
	if m := priorityRe.FindStringSubmatch(message); m != nil {
		p := m[1]
		if p == "" {
			p = m[2]
		}
		entities["priority"] = strings.ToLower(p)
	}
	if t == core.IntentCalculation {
		if m := arithRe.FindStringSubmatch(message); m != nil {
			entities["lhs"] = m[1]
			entities["op"] = m[2]
			entities["rhs"] = m[3]
		}
	}

	if len(entities) == 0 {
		return nil
	}
	return entities
}
