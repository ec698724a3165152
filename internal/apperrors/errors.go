// Package apperrors defines the error taxonomy shared by handlers and
// services: validation, auth, network, remote-API and precondition errors.
// Callers discriminate with errors.As / the Is* helpers instead of matching
// message substrings.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ValidationError reports client input that failed a form-level check
// (missing field, malformed email, weak password). Field is optional.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// AuthError reports rejected credentials or an expired/invalid session.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// NetworkError wraps a transport-level failure (connection refused, reset,
// deadline exceeded). The user-facing message asks to check the connection;
// the underlying cause stays available via Unwrap.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: check your connection and try again"
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError reports a non-2xx response from the prediction service,
// carrying the HTTP status text the way the service reported it.
type APIError struct {
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("prediction API error: %s", e.Status)
}

// StateError reports an operation attempted without its precondition,
// e.g. updating a profile with no active session or submitting a
// diagnosis with no image selected.
type StateError struct {
	Message string
}

func (e *StateError) Error() string { return e.Message }

func Validation(field, message string) error { return &ValidationError{Field: field, Message: message} }
func Auth(message string) error              { return &AuthError{Message: message} }
func State(message string) error             { return &StateError{Message: message} }

// WrapTransport classifies err. Timeouts, cancellations and net-level
// failures become a NetworkError; anything else passes through unchanged
// so typed errors produced deeper in the stack survive.
func WrapTransport(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &NetworkError{Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &NetworkError{Err: err}
	}
	// url.Error and friends wrap syscall errors; any *net.OpError in the
	// chain is a transport failure too.
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &NetworkError{Err: err}
	}
	return err
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

func IsNetwork(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

func IsAPI(err error) bool {
	var target *APIError
	return errors.As(err, &target)
}

func IsState(err error) bool {
	var target *StateError
	return errors.As(err, &target)
}
