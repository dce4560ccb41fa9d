package client

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind identifies which class of failure an *Error represents.
type ErrorKind string

// Error kinds
const (
	KindAuthentication ErrorKind = "authentication_error"
	KindInvalidRequest ErrorKind = "invalid_request"
	KindRateLimit      ErrorKind = "rate_limit_error"
	KindConnection     ErrorKind = "api_connection_error"
	KindAPI            ErrorKind = "api_error"
)

// Sentinels for errors.Is matching.
var (
	ErrAuthentication  = errors.New("authentication error")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrRateLimit       = errors.New("rate limit exceeded")
	ErrConnection      = errors.New("api connection error")
	ErrAPI             = errors.New("api error")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error is returned for every failed API call.
type Error struct {
	Kind    ErrorKind
	Message string

	// StatusCode is zero when no response was received.
	StatusCode int

	// Body is the parsed JSON error body, or nil when the body was absent
	// or not valid JSON.
	Body any
	// Type and Param are lifted from the error body when present.
	Type  string
	Param string

	// RetryAfter is the server's Retry-After hint on rate limit errors.
	RetryAfter time.Duration

	// Err is the underlying transport failure for connection errors.
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("invoiced: %s: %s", e.Kind, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Param != "" {
		msg = fmt.Sprintf("%s (param %s)", msg, e.Param)
	}
	return msg
}

// Unwrap returns the underlying transport error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindAuthentication:
		return target == ErrAuthentication
	case KindInvalidRequest:
		return target == ErrInvalidRequest
	case KindRateLimit:
		return target == ErrRateLimit
	case KindConnection:
		return target == ErrConnection
	case KindAPI:
		return target == ErrAPI
	}
	return false
}

// InvalidArgumentError reports misuse of the library, such as a missing API
// key. It never involves the network.
type InvalidArgumentError struct {
	Field   string
	Message string
}

func (e *InvalidArgumentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid argument: %s", e.Message)
}

// Is implements errors.Is for sentinel error matching.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func newInvalidArgument(field, message string) *InvalidArgumentError {
	return &InvalidArgumentError{Field: field, Message: message}
}

// IsAuthenticationError returns true if the API rejected the credentials (401).
func IsAuthenticationError(err error) bool {
	return isKind(err, KindAuthentication)
}

// IsInvalidRequest returns true if the API rejected the request (4xx other
// than 401 and 429).
func IsInvalidRequest(err error) bool {
	return isKind(err, KindInvalidRequest)
}

// IsRateLimitError returns true if the error indicates rate limit exceeded.
func IsRateLimitError(err error) bool {
	return isKind(err, KindRateLimit)
}

// IsConnectionError returns true if no HTTP response was received.
func IsConnectionError(err error) bool {
	return isKind(err, KindConnection)
}

// IsAPIError returns true for server-side failures (5xx) and malformed
// successful responses.
func IsAPIError(err error) bool {
	return isKind(err, KindAPI)
}

// IsInvalidArgument returns true if the error is an *InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var ie *InvalidArgumentError
	return errors.As(err, &ie)
}

func isKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
