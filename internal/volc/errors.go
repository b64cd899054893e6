package volc

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the upstream sends no body.
var ErrEmptyResponse = errors.New("empty response from upstream")

// ErrResponseTooLarge is returned when the upstream body exceeds the size cap.
var ErrResponseTooLarge = errors.New("response too large")

// ExecutionError is a failed tool call. It names the action and carries a
// human-readable message; Err is the underlying cause, if any.
type ExecutionError struct {
	Action  string
	Message string
	Err     error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Action, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Action, e.Message)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// APIError is an error reported by the Volcengine API itself.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := e.Code
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.RequestID != "" {
		msg += " (request id " + e.RequestID + ")"
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("HTTP %d %s", e.StatusCode, msg)
	}
	return msg
}

func executionError(action, message string, err error) error {
	return &ExecutionError{Action: action, Message: message, Err: err}
}
