package agent

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/deskmind/deskmind/core"
)

// embeddedRe matches inline context payloads of the form "[Label: {json}]"
// or "[Label: token]". The surrounding app uses these to pass structured
// state (a ticket, a workload snapshot) or a bare identifier alongside the
// user's text.
var embeddedRe = regexp.MustCompile(`\[([A-Za-z][A-Za-z0-9_]*):\s*(\{[^\[\]]*\}|[^\[\]{}]+)\]`)

// parseEmbeddedContext strips embedded payloads from the message and returns
// the cleaned text, the parsed payloads keyed by lowercased label, and one
// error per payload that failed to parse. Brace payloads must be valid JSON;
// bare tokens are stored as JSON strings. Malformed payloads are removed
// from the text but contribute no metadata; the turn proceeds regardless.
func parseEmbeddedContext(message string) (string, map[string]json.RawMessage, []error) {
	matches := embeddedRe.FindAllStringSubmatch(message, -1)
	if len(matches) == 0 {
		return message, nil, nil
	}

	meta := make(map[string]json.RawMessage, len(matches))
	var errs []error

	for _, m := range matches {
		label := strings.ToLower(m[1])
		payload := strings.TrimSpace(m[2])
		if !strings.HasPrefix(payload, "{") {
			quoted, _ := json.Marshal(payload)
			meta[label] = quoted
			continue
		}
		if !json.Valid([]byte(payload)) {
			errs = append(errs, &core.MalformedContextError{Marker: m[0], Err: errInvalidJSON})
			continue
		}
		raw := make(json.RawMessage, len(payload))
		copy(raw, payload)
		meta[label] = raw
	}

	cleaned := strings.TrimSpace(embeddedRe.ReplaceAllString(message, ""))
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if len(meta) == 0 {
		meta = nil
	}
	return cleaned, meta, errs
}

var errInvalidJSON = errors.New("invalid json payload")
