package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// AuthError reports a missing or rejected API credential.
type AuthError struct {
	Operation string
	Status    int
	Message   string
}

func (e *AuthError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("notion %s: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("notion %s: authentication failed (status %d): %s", e.Operation, e.Status, e.Message)
}

// TransportError reports a failed call: either no response was received (Err
// is set) or the service answered with a non-2xx status.
type TransportError struct {
	Operation string
	Status    int
	Code      string
	Message   string
	Err       error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("notion %s: request failed: %v", e.Operation, e.Err)
	}
	if e.Code != "" {
		return fmt.Sprintf("notion %s: status %d (%s): %s", e.Operation, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("notion %s: status %d: %s", e.Operation, e.Status, e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Retryable reports whether a caller-level retry may succeed: rate limiting,
// server-side failures and network errors other than cancellation.
func (e *TransportError) Retryable() bool {
	if e.Status == 0 {
		return !errors.Is(e.Err, context.Canceled)
	}
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// IsRetryable reports whether err wraps a retryable *TransportError.
func IsRetryable(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr) && tErr.Retryable()
}

// errorEnvelope is the service's JSON error body.
type errorEnvelope struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
