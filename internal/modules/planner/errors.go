package planner

import (
	"errors"
	"strings"
)

// ErrAIGeneration wraps every failure on the AI path: transport, missing JSON,
// parse or schema failure after the repair attempt, and timeout. Callers
// recover from it by falling back; it never reaches an HTTP client.
var ErrAIGeneration = errors.New("ai plan generation failed")

// InputError reports the first input field that failed validation.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string { return e.Message }

// Issue is one field-level schema violation.
type Issue struct {
	Path    string
	Message string
}

// ValidationError lists every schema violation found in a candidate plan.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "invalid plan"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.Path == "" {
			parts = append(parts, is.Message)
			continue
		}
		parts = append(parts, is.Path+": "+is.Message)
	}
	return strings.Join(parts, "; ")
}
