package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType classifies every failure the client can surface
type ErrorType string

const (
	ErrorTypeClosedSession ErrorType = "closed_session"
	ErrorTypeAuth          ErrorType = "auth"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeRateLimit     ErrorType = "rate_limit"
	ErrorTypeServer        ErrorType = "server"
	ErrorTypeTransport     ErrorType = "transport"
	ErrorTypeDecode        ErrorType = "decode"
	ErrorTypeAPIRequest    ErrorType = "api_request"
)

// Error represents an API error with type information. Method, Path and
// Status are filled in by the request executor where they apply, so a
// caller always knows which call failed without string matching.
type Error struct {
	Type       ErrorType
	Method     string
	Path       string
	Status     int
	Code       int    // vendor error code from the response body, if any
	Message    string
	RetryAfter time.Duration // populated on rate limit errors
	Err        error         // wrapped cause (transport, decode)
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Method != "" && e.Path != "" {
		if e.Status != 0 {
			return fmt.Sprintf("%s error: %s %s returned %d: %s", e.Type, e.Method, e.Path, e.Status, msg)
		}
		return fmt.Sprintf("%s error: %s %s: %s", e.Type, e.Method, e.Path, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Type, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// DecodeError reports a payload that failed strict decoding: a required
// field that is missing or carries the wrong JSON type.
type DecodeError struct {
	Path     string // request path that produced the payload, when known
	Field    string
	Expected string
	Actual   string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		if e.Err != nil {
			return fmt.Sprintf("decode error: %v", e.Err)
		}
		return "decode error: malformed payload"
	}
	return fmt.Sprintf("decode error: field %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewClosedSession reports a call issued after the client was closed
func NewClosedSession(method, path string) *Error {
	return &Error{
		Type:    ErrorTypeClosedSession,
		Method:  method,
		Path:    path,
		Message: "client is closed",
	}
}

// NewAuthentication reports a 401 or 403 from the vendor
func NewAuthentication(method, path string, status, code int, message string) *Error {
	if message == "" {
		message = "invalid or unauthorized API key"
	}
	return &Error{
		Type:    ErrorTypeAuth,
		Method:  method,
		Path:    path,
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// NewNotFound reports a 404 for the requested entity
func NewNotFound(method, path string, code int, message string) *Error {
	if message == "" {
		message = "resource not found"
	}
	return &Error{
		Type:    ErrorTypeNotFound,
		Method:  method,
		Path:    path,
		Status:  404,
		Code:    code,
		Message: message,
	}
}

// NewRateLimitExceeded reports a repeated 429 past the single allowed
// backoff retry
func NewRateLimitExceeded(method, path string, retryAfter time.Duration) *Error {
	return &Error{
		Type:       ErrorTypeRateLimit,
		Method:     method,
		Path:       path,
		Status:     429,
		Message:    "rate limit exceeded",
		RetryAfter: retryAfter,
	}
}

// NewServer reports a 5xx that exhausted the transient retry budget
func NewServer(method, path string, status int, message string) *Error {
	if message == "" {
		message = "server error"
	}
	return &Error{
		Type:    ErrorTypeServer,
		Method:  method,
		Path:    path,
		Status:  status,
		Message: message,
	}
}

// NewTransport reports a network failure or timeout that exhausted the
// retry budget, wrapping the underlying cause
func NewTransport(method, path string, cause error) *Error {
	return &Error{
		Type:   ErrorTypeTransport,
		Method: method,
		Path:   path,
		Err:    cause,
	}
}

// NewAPIRequest reports any other non-2xx response
func NewAPIRequest(method, path string, status, code int, message string) *Error {
	return &Error{
		Type:    ErrorTypeAPIRequest,
		Method:  method,
		Path:    path,
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// TypeOf returns the ErrorType carried by err, unwrapping as needed.
// Decode errors report ErrorTypeDecode; anything else yields "".
func TypeOf(err error) ErrorType {
	var apiErr *Error
	if stderrors.As(err, &apiErr) {
		return apiErr.Type
	}
	var decErr *DecodeError
	if stderrors.As(err, &decErr) {
		return ErrorTypeDecode
	}
	return ""
}

// Is reports whether err carries the given ErrorType
func Is(err error, t ErrorType) bool {
	return TypeOf(err) == t
}

// IsClosedSession reports whether err means the client was already closed
func IsClosedSession(err error) bool {
	return Is(err, ErrorTypeClosedSession)
}

// IsNotFound reports whether err is the vendor's 404 for the requested entity
func IsNotFound(err error) bool {
	return Is(err, ErrorTypeNotFound)
}

// IsRateLimited reports whether err means the rate limit budget was exhausted
func IsRateLimited(err error) bool {
	return Is(err, ErrorTypeRateLimit)
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeTransport, ErrorTypeServer:
		return true
	case ErrorTypeAuth, ErrorTypeNotFound, ErrorTypeDecode, ErrorTypeClosedSession, ErrorTypeAPIRequest:
		return false
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code belongs on the
// transient retry budget. 429 is deliberately absent: rate limit
// responses get a single retry governed by Retry-After, not backoff.
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 500, 502, 503, 504:
		return true
	case 401, 403, 404, 429:
		return false
	default:
		return statusCode >= 500 // Retry all 5xx errors
	}
}
