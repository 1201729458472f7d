package handler

import "github.com/deskmind/deskmind/core"

// Defaults returns the builtin handler set for a general support agent.
func Defaults() []core.Handler {
	return []core.Handler{
		NewTaskCreationHandler(),
		NewCalculationHandler(),
		NewTaskQueryHandler(),
		NewWorkloadHandler(),
		NewGreetingHandler(),
		NewHowToHandler(),
	}
}
