package core

import "time"

// ResponseMetadata carries routing and provenance details alongside the
// response text. Extra holds arbitrary agent- or handler-specific fields.
type ResponseMetadata struct {
	Handler        string            `json:"handler,omitempty"`
	Confidence     float64           `json:"confidence,omitempty"`
	Cached         bool              `json:"cached,omitempty"`
	ProcessingTime time.Duration     `json:"processing_time,omitempty"`
	FallbackUsed   bool              `json:"fallback_used,omitempty"`
	Extra          map[string]string `json:"extra,omitempty"`
}

// Response is the outcome of one processed turn. A handler that cannot fully
// resolve a turn returns Deferred=true (empty content is honored as the same
// signal) together with Hints: free-form key/value signals the generation
// fallback should respect and that must survive substitution into the final
// response metadata.
type Response struct {
	Content  string            `json:"content"`
	Deferred bool              `json:"deferred,omitempty"`
	Hints    map[string]string `json:"hints,omitempty"`
	Metadata ResponseMetadata  `json:"metadata"`
}

// IsDeferred reports whether this response hands the turn to the generation
// fallback, either explicitly or via the legacy empty-content convention.
func (r Response) IsDeferred() bool { return r.Deferred || r.Content == "" }

// Resolved builds a directly deliverable response produced by handler.
// Confidence is left unset; the router stamps the route confidence on
// delivery.
func Resolved(handler, content string) Response {
	return Response{Content: content, Metadata: ResponseMetadata{Handler: handler}}
}

// DeferToGeneration builds a deferred response carrying handler-derived hints.
func DeferToGeneration(handler string, hints map[string]string) Response {
	return Response{Deferred: true, Hints: hints, Metadata: ResponseMetadata{Handler: handler}}
}

// MergeHints merges the provided hints into the response, both into Hints and
// into Metadata.Extra, without overwriting keys already present. Used by the
// router so handler-derived signals survive fallback substitution.
func (r *Response) MergeHints(hints map[string]string) {
	if len(hints) == 0 {
		return
	}
	if r.Hints == nil {
		r.Hints = make(map[string]string, len(hints))
	}
	if r.Metadata.Extra == nil {
		r.Metadata.Extra = make(map[string]string, len(hints))
	}
	for k, v := range hints {
		if _, ok := r.Hints[k]; !ok {
			r.Hints[k] = v
		}
		if _, ok := r.Metadata.Extra[k]; !ok {
			r.Metadata.Extra[k] = v
		}
	}
}
