package llm

import (
	"context"
	"errors"
)

// NoAnalysisGenerated is substituted when the service answers without a
// generated-text field.
const NoAnalysisGenerated = "No analysis generated"

// Completer is the capability interface the pipeline depends on: one prompt
// in, one generated text out. The concrete completion service behind it is
// swappable without touching the orchestrator or the prompt builder.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrorKind classifies completion failures.
type ErrorKind string

const (
	// ConnectionRefused means the endpoint is unreachable.
	ConnectionRefused ErrorKind = "CONNECTION_REFUSED"
	// RequestFailed covers every other transport or HTTP-level failure.
	RequestFailed ErrorKind = "REQUEST_FAILED"
	// UnexpectedFailure covers anything else that went wrong during the call.
	UnexpectedFailure ErrorKind = "UNEXPECTED_FAILURE"
)

// ModelError is the typed failure surfaced to the orchestrator. It is never
// retried; every failure propagates immediately.
type ModelError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ModelError) Error() string {
	return e.Message
}

func (e *ModelError) Unwrap() error {
	return e.Cause
}

// KindOf returns the error's kind, or UnexpectedFailure for foreign errors.
func KindOf(err error) ErrorKind {
	var me *ModelError
	if errors.As(err, &me) {
		return me.Kind
	}
	return UnexpectedFailure
}
