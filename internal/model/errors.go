package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNoProviderAvailable indicates LLMFactory.Create exhausted the
	// requested provider, the configured fallback, and the universal
	// OpenAI fallback without finding a usable client.
	ErrNoProviderAvailable = errors.New("no provider available")

	// ErrCancelled indicates a run-level cancellation was observed.
	ErrCancelled = errors.New("run cancelled")

	// ErrNoDraft indicates a challenger or verifier node ran with no
	// synthesized draft present in state.
	ErrNoDraft = errors.New("no synthesized draft available")
)

// ErrorKind classifies the error taxonomy described by the workflow's
// error handling design.
type ErrorKind string

const (
	KindProviderUnavailable ErrorKind = "ProviderUnavailable"
	KindProviderTransport   ErrorKind = "ProviderTransport"
	KindParseFailure        ErrorKind = "ParseFailure"
	KindInvariantViolation  ErrorKind = "InvariantViolation"
	KindSearchFailure       ErrorKind = "SearchFailure"
	KindCancellationRequested ErrorKind = "CancellationRequested"
)

// ProviderError wraps a failure attributed to one (provider, model) pair,
// tagged with the error kind that determines node-level containment.
type ProviderError struct {
	Kind     ErrorKind
	Provider string
	Model    string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s/%s: %v", e.Kind, e.Provider, e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError constructs a ProviderError.
func NewProviderError(kind ErrorKind, provider, modelName string, err error) *ProviderError {
	return &ProviderError{Kind: kind, Provider: provider, Model: modelName, Err: err}
}
