package core

// IntentType classifies the purpose of a user message. The set is closed;
// IntentUnknown is a valid classification, never an error, signalling that
// downstream handlers or generation must decide.
type IntentType string

const (
	IntentGreeting     IntentType = "greeting"
	IntentTaskCreation IntentType = "task_creation"
	IntentTaskQuery    IntentType = "task_query"
	IntentWorkload     IntentType = "workload_analysis"
	IntentCalculation  IntentType = "calculation"
	IntentHowTo        IntentType = "howto"
	IntentInformation  IntentType = "information"
	IntentUnknown      IntentType = "unknown"
)

// Intent is the result of classifying a user message: the detected type, a
// confidence heuristic, entities extracted from the text, the original
// message, and capability flags signalling what downstream context the turn
// will need.
type Intent struct {
	Type       IntentType        `json:"type"`
	Confidence float64           `json:"confidence"`
	Entities   map[string]string `json:"entities,omitempty"`
	Message    string            `json:"message"`

	// NeedsKnowledge signals that knowledge retrieval should feed this turn.
	NeedsKnowledge bool `json:"needs_knowledge,omitempty"`
	// NeedsDomainData signals that domain data (tasks, workload) is required.
	NeedsDomainData bool `json:"needs_domain_data,omitempty"`
}

// UnknownIntent builds an IntentUnknown classification for a message.
func UnknownIntent(message string) Intent {
	return Intent{Type: IntentUnknown, Confidence: 0, Message: message}
}
