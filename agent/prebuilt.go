package agent

import (
	"github.com/deskmind/deskmind/core"
)

// NewGeneralAssistant builds an agent that owns every intent with the full
// builtin handler set. The catch-all for a single-agent deployment.
func NewGeneralAssistant(optFns ...func(o *Options)) *Agent {
	return New("general_assistant", append([]func(o *Options){func(o *Options) {
		o.Description = "Handles greetings, calculations and everyday ticket questions"
	}}, optFns...)...)
}

// NewKnowledgeSpecialist builds an agent focused on documentation questions.
// It owns knowledge-seeking intents and contributes to everything else.
func NewKnowledgeSpecialist(optFns ...func(o *Options)) *Agent {
	return New("knowledge_specialist", append([]func(o *Options){func(o *Options) {
		o.Description = "Answers how-to and informational questions from the knowledge base"
		o.OwnedIntents = []core.IntentType{core.IntentHowTo, core.IntentInformation}
		o.ContributeIntents = []core.IntentType{
			core.IntentTaskCreation, core.IntentTaskQuery, core.IntentWorkload, core.IntentUnknown,
		}
	}}, optFns...)...)
}

// NewTaskCoordinator builds an agent that owns task lifecycle intents.
func NewTaskCoordinator(optFns ...func(o *Options)) *Agent {
	return New("task_coordinator", append([]func(o *Options){func(o *Options) {
		o.Description = "Creates, queries and analyses tasks and workload"
		o.OwnedIntents = []core.IntentType{
			core.IntentTaskCreation, core.IntentTaskQuery, core.IntentWorkload,
		}
	}}, optFns...)...)
}
