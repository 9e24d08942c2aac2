package aiservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/helmhq/helm/ai-gateway/pkg/httpclient"
	"github.com/sony/gobreaker"
)

// FailureKind tags why a call to the AI service did not produce a usable body
type FailureKind string

const (
	KindUpstreamStatus FailureKind = "upstream_status"
	KindTransport      FailureKind = "transport"
	KindTimeout        FailureKind = "timeout"
	KindCircuitOpen    FailureKind = "circuit_open"
	KindMalformedBody  FailureKind = "malformed_body"
	KindCanceled       FailureKind = "canceled"
	KindUnknown        FailureKind = "unknown"
)

// ErrCircuitOpen is returned while the breaker rejects calls without dialing
var ErrCircuitOpen = errors.New("ai service circuit breaker is open")

// Error is the single failure shape returned by Client methods
type Error struct {
	Kind       FailureKind
	StatusCode int    // set for KindUpstreamStatus
	Body       string // upstream body for KindUpstreamStatus, never shown to callers
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindUpstreamStatus {
		return fmt.Sprintf("ai service returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("ai service %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify returns the failure kind of any error produced by this package
func Classify(err error) FailureKind {
	if err == nil {
		return ""
	}
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.Kind
	}
	return KindUnknown
}

// classify converts connector and breaker errors into *Error
func classify(err error) *Error {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &Error{Kind: KindCircuitOpen, Err: ErrCircuitOpen}
	}

	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		return &Error{Kind: KindUpstreamStatus, StatusCode: httpErr.StatusCode, Body: httpErr.Body, Err: err}
	}

	var timeoutErr *httpclient.TimeoutError
	if errors.As(err, &timeoutErr) {
		return &Error{Kind: KindTimeout, Err: err}
	}

	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindCanceled, Err: err}
	}

	var netErr *httpclient.NetworkError
	if errors.As(err, &netErr) {
		return &Error{Kind: KindTransport, Err: err}
	}

	return &Error{Kind: KindUnknown, Err: err}
}

// countsAgainstBreaker reports whether a failure says something about the
// health of the AI service. Caller cancellations and 4xx responses do not.
func countsAgainstBreaker(err error) bool {
	if err == nil {
		return false
	}
	e := classify(err)
	switch e.Kind {
	case KindCanceled:
		return false
	case KindUpstreamStatus:
		return e.StatusCode >= 500
	default:
		return true
	}
}
