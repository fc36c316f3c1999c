package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRoleNotPermitted   = errors.New("role cannot be self-registered")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrRideNotFound       = errors.New("ride not found")
	ErrForbidden          = errors.New("access forbidden")
)

// ErrorKind classifies a failed API call.
type ErrorKind int

const (
	// KindNetwork means no response was received at all: connection refused,
	// DNS failure, or timeout.
	KindNetwork ErrorKind = iota
	// KindClient means the server answered with a 4xx status.
	KindClient
	// KindServer means the server answered with a 5xx status.
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	}
	return "unknown"
}

// APIError is the single normalized failure shape every remote call
// produces. StatusCode is zero for network failures; Message carries the
// server-provided text when one was present, else a generic fallback.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("api: %s error (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %s error: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// ServerFault reports whether the failure is the server's (5xx) rather than
// the caller's. Callers key retry and redirect decisions off this plus the
// raw status code.
func (e *APIError) ServerFault() bool { return e.StatusCode >= 500 }

// NetworkError builds the no-response classification.
func NetworkError(err error) *APIError {
	return &APIError{
		Kind:    KindNetwork,
		Message: "could not reach the server, check your connection",
		Err:     err,
	}
}

// HTTPError classifies a received response with status >= 400.
func HTTPError(status int, message string) *APIError {
	kind := KindClient
	if status >= 500 {
		kind = KindServer
	}
	if message == "" {
		message = "request failed"
	}
	return &APIError{Kind: kind, StatusCode: status, Message: message}
}

// IsNetworkError reports whether err is a no-response failure.
func IsNetworkError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Kind == KindNetwork
}

// IsUnauthorized reports whether err is an HTTP 401.
func IsUnauthorized(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == 401
}

// StatusOf returns the HTTP status carried by err, or zero.
func StatusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	return 0
}

// ValidationError is raised locally, before any network call. Fields maps
// field name to a human-readable problem description.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, field+" "+msg)
	}
	return "validation: " + strings.Join(msgs, "; ")
}

// IsValidationError reports whether err was raised by local validation.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
