package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError rejects a turn before any side effect. It never touches
// state and never triggers a backend call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// BackendKind classifies a generation-call failure into a small set used
// to pick a user-safe message. The backend exposes no typed errors, so
// classification is by message content.
type BackendKind string

const (
	BackendKindAuth      BackendKind = "auth"
	BackendKindTimeout   BackendKind = "timeout"
	BackendKindRateLimit BackendKind = "rate_limit"
	BackendKindGeneric   BackendKind = "generic"
)

// BackendError wraps a failure from the generation backend.
type BackendError struct {
	Kind BackendKind
	Err  error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s error: %v", e.Kind, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// ErrEmptyResponse signals a transport-level success that carried no
// usable text. History is never mutated on this path.
var ErrEmptyResponse = errors.New("AI returned empty response")

// ClassifyBackendError wraps err in a BackendError with the kind inferred
// from its message.
func ClassifyBackendError(err error) *BackendError {
	msg := strings.ToLower(err.Error())
	kind := BackendKindGeneric
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "api key") || strings.Contains(msg, "invalid_api_key"):
		kind = BackendKindAuth
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "rate_limit"):
		kind = BackendKindRateLimit
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") ||
		strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host"):
		kind = BackendKindTimeout
	}
	return &BackendError{Kind: kind, Err: err}
}

// UserMessage returns the user-safe text for a backend failure. Raw detail
// stays with the error for privileged callers.
func (e *BackendError) UserMessage() string {
	switch e.Kind {
	case BackendKindAuth:
		return "The assistant is misconfigured. Please contact the operator."
	case BackendKindTimeout:
		return "The assistant took too long to respond. Please try again."
	case BackendKindRateLimit:
		return "The assistant is handling too many requests right now. Please wait a moment."
	default:
		return "Something went wrong while generating a response. Please try again."
	}
}
