package llm

import (
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// Kind classifies an upstream model failure. The classification happens
// here, where the provider response is parsed, so handlers never have to
// pattern-match error text.
type Kind string

const (
	KindRateLimited Kind = "rate_limited"
	KindAuth        Kind = "auth_failed"
	KindUnavailable Kind = "unavailable"
	KindUnknown     Kind = "unknown"
)

// Error wraps an upstream failure with its kind.
type Error struct {
	Kind Kind
	err  error
}

// NewError builds an Error of the given kind wrapping err.
func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("llm: %s: %v", e.Kind, e.err)
}

func (e *Error) Unwrap() error {
	return e.err
}

// KindOf extracts the failure kind from an error returned by this
// package. Non-llm errors report KindUnknown.
func KindOf(err error) Kind {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr.Kind
	}
	return KindUnknown
}

// ErrNoActiveModel is returned when no candidate model survived the
// startup handshake (or no API key was configured at all).
var ErrNoActiveModel = &Error{Kind: KindUnavailable, err: errors.New("no active model")}

var errNoChoices = errors.New("model returned no choices")

func classify(err error) *Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{Kind: kindFromStatus(apiErr.HTTPStatusCode), err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{Kind: kindFromStatus(reqErr.HTTPStatusCode), err: err}
	}
	// Transport-level failure (connection refused, timeout, DNS).
	return &Error{Kind: KindUnavailable, err: err}
}

func kindFromStatus(status int) Kind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status >= 500:
		return KindUnavailable
	default:
		return KindUnknown
	}
}
