package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable machine-readable codes returned alongside the human message.
const (
	CodeInvalidJSON        = "invalid_json"
	CodeInvalidInput       = "invalid_input"
	CodeRateLimited        = "rate_limited"
	CodeInvalidEmail       = "invalid_email"
	CodeMissingInputs      = "missing_inputs"
	CodeMissingPlan        = "missing_plan"
	CodeLeadPersistFailed  = "lead_persist_failed"
	CodeEventPersistFailed = "event_persist_failed"
	CodePlanNotFound       = "plan_not_found"
	CodeAIUnavailable      = "ai_unavailable"
	CodeEmailFailed        = "email_failed"
	CodeInternal           = "internal"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Newf builds an Error whose message is the formatted string.
func Newf(status int, code string, format string, args ...any) *Error {
	return &Error{Status: status, Code: code, Err: fmt.Errorf(format, args...)}
}

// As extracts an *Error from err. Anything else maps to a generic 500 with
// the given public message so internal details never leak to callers.
func As(err error, publicMsg string) *Error {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae
	}
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Err: errors.New(publicMsg)}
}
