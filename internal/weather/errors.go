package weather

import (
	"errors"
)

var (
	// Provider failure kinds. Every provider error unwraps to exactly one of these.
	ErrNotFound     = errors.New("location not found")
	ErrUnauthorized = errors.New("provider rejected credentials")
	ErrRateLimited  = errors.New("provider quota exceeded")
	ErrNetwork      = errors.New("network error")
	ErrMalformed    = errors.New("malformed provider response")

	// Coordinator input errors.
	ErrUnknownLocation = errors.New("unknown location")
	ErrEmptyQuery      = errors.New("empty query")
	ErrClosed          = errors.New("coordinator closed")
)

// Error is a provider failure. Kind is one of the Err* sentinels above;
// Message is the provider's own message when it sent one.
type Error struct {
	Kind    error
	Message string
	Err     error
}

// NewError returns an *Error of the given kind.
func NewError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Kind.Error() + ": " + e.Err.Error()
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf reports the provider failure kind of err, or nil when err is not a
// provider failure.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrUnauthorized, ErrRateLimited, ErrNetwork, ErrMalformed} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
