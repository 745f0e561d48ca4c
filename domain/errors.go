package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Error kinds shared by both providers. Callers classify failures with
// errors.Is against these sentinels; ProviderError carries the details.
var (
	ErrAuth         = errors.New("authentication failed")
	ErrNotFound     = errors.New("not found")
	ErrRateLimit    = errors.New("rate limited")
	ErrTransient    = errors.New("temporary failure")
	ErrInvalidInput = errors.New("invalid input")
)

type ErrorKind string

const (
	ErrorKindAuth         ErrorKind = "auth"
	ErrorKindNotFound     ErrorKind = "not_found"
	ErrorKindRateLimit    ErrorKind = "rate_limit"
	ErrorKindTransient    ErrorKind = "transient"
	ErrorKindInvalidInput ErrorKind = "invalid_input"
	ErrorKindCanceled     ErrorKind = "canceled"
	ErrorKindInternal     ErrorKind = "internal"
)

const (
	ProviderClickUp = "clickup"
	ProviderGemini  = "gemini"
)

// ProviderError describes a failed call to an external provider.
type ProviderError struct {
	Kind       error // one of the Err* sentinels
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Err        error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Provider, e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf classifies err into an ErrorKind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuth):
		return ErrorKindAuth
	case errors.Is(err, ErrNotFound):
		return ErrorKindNotFound
	case errors.Is(err, ErrRateLimit):
		return ErrorKindRateLimit
	case errors.Is(err, ErrInvalidInput):
		return ErrorKindInvalidInput
	case errors.Is(err, context.Canceled):
		return ErrorKindCanceled
	case errors.Is(err, ErrTransient), errors.Is(err, context.DeadlineExceeded):
		return ErrorKindTransient
	default:
		return ErrorKindInternal
	}
}

// IsRetryable reports whether a failed idempotent call may be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrRateLimit)
}

// RetryAfterOf returns the provider-requested delay carried by err, if any.
func RetryAfterOf(err error) time.Duration {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.RetryAfter
	}
	return 0
}
