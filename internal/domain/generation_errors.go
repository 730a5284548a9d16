package domain

import (
	"fmt"
)

// GenerationErrorKind classifies why a generation attempt failed.
type GenerationErrorKind string

const (
	KindInvalidRequest    GenerationErrorKind = "invalid_request"
	KindTransport         GenerationErrorKind = "transport"
	KindAuth              GenerationErrorKind = "auth"
	KindRateLimit         GenerationErrorKind = "rate_limit"
	KindBackendFault      GenerationErrorKind = "backend_fault"
	KindMalformedResponse GenerationErrorKind = "malformed_response"
)

// GenerationError is the failure type of a single generation attempt.
type GenerationError struct {
	Kind GenerationErrorKind
	// Field names the offending response field for malformed responses.
	Field string
	Err   error
}

func (e *GenerationError) Error() string {
	msg := string(e.Kind)
	if e.Field != "" {
		msg = fmt.Sprintf("%s (field %q)", msg, e.Field)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Is matches any GenerationError of the same kind, so callers can write
// errors.Is(err, domain.ErrRateLimit).
func (e *GenerationError) Is(target error) bool {
	t, ok := target.(*GenerationError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Field == "" || t.Field == e.Field)
}

// Kind sentinels for errors.Is.
var (
	ErrInvalidRequest    = &GenerationError{Kind: KindInvalidRequest}
	ErrTransport         = &GenerationError{Kind: KindTransport}
	ErrAuth              = &GenerationError{Kind: KindAuth}
	ErrRateLimit         = &GenerationError{Kind: KindRateLimit}
	ErrBackendFault      = &GenerationError{Kind: KindBackendFault}
	ErrMalformedResponse = &GenerationError{Kind: KindMalformedResponse}
)

func NewGenerationError(kind GenerationErrorKind, err error) *GenerationError {
	return &GenerationError{Kind: kind, Err: err}
}

// NewMalformedResponseError reports a response that could not be turned into
// a quiz item. field is empty when no JSON object could be parsed at all.
func NewMalformedResponseError(field string, err error) *GenerationError {
	return &GenerationError{Kind: KindMalformedResponse, Field: field, Err: err}
}

func NewInvalidRequestError(format string, args ...interface{}) *GenerationError {
	return &GenerationError{Kind: KindInvalidRequest, Err: fmt.Errorf(format, args...)}
}

// RetryExhaustedError is returned once every allowed attempt has failed.
type RetryExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("quiz generation failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }
