package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorType represents the category of error that occurred during a fetch operation
type ErrorType string

const (
	// ErrorTypeNetwork indicates a network-level error (connection refused, DNS, etc.)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeRateLimit indicates the request was rejected due to rate limiting (HTTP 429)
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeServer indicates a server error (HTTP 5xx)
	ErrorTypeServer ErrorType = "server"
	// ErrorTypeClient indicates a client error (HTTP 4xx except 429)
	ErrorTypeClient ErrorType = "client"
	// ErrorTypeUpstream indicates the API answered but reported that it did not process the request
	ErrorTypeUpstream ErrorType = "upstream"
	// ErrorTypeValidation indicates the response was received but its shape was not recognized
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeTimeout indicates the request timed out
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeUnknown indicates an error of unknown type
	ErrorTypeUnknown ErrorType = "unknown"
)

// genericMessage is used when the upstream gives no message of its own.
const genericMessage = "unknown error"

// FetchError is the data source error: the upstream call failed or returned a
// payload that could not be used. It is fatal to the current run.
type FetchError struct {
	Type       ErrorType
	Retryable  bool
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// IsDataSourceError reports whether err is, or wraps, a FetchError.
func IsDataSourceError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// NewNetworkError creates a network error
func NewNetworkError(cause error) *FetchError {
	return &FetchError{
		Type:      ErrorTypeNetwork,
		Retryable: true,
		Message:   "network request failed",
		Cause:     cause,
	}
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(statusCode int) *FetchError {
	return &FetchError{
		Type:       ErrorTypeRateLimit,
		Retryable:  true,
		StatusCode: statusCode,
		Message:    "rate limit exceeded",
	}
}

// NewServerError creates a server error
func NewServerError(statusCode int) *FetchError {
	return &FetchError{
		Type:       ErrorTypeServer,
		Retryable:  true,
		StatusCode: statusCode,
		Message:    "server returned an error",
	}
}

// NewClientError creates a client error
func NewClientError(statusCode int, message string) *FetchError {
	return &FetchError{
		Type:       ErrorTypeClient,
		Retryable:  false,
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewUpstreamError creates an error carrying the message the API sent back.
// An empty message is replaced by a generic one.
func NewUpstreamError(message string) *FetchError {
	if message == "" {
		message = genericMessage
	}
	return &FetchError{
		Type:      ErrorTypeUpstream,
		Retryable: false,
		Message:   message,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *FetchError {
	return &FetchError{
		Type:      ErrorTypeValidation,
		Retryable: false,
		Message:   message,
	}
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(cause error) *FetchError {
	return &FetchError{
		Type:      ErrorTypeTimeout,
		Retryable: true,
		Message:   "request timed out",
		Cause:     cause,
	}
}

// ClassifyHTTPError classifies an HTTP status code into an appropriate FetchError.
// A non-empty message from the response body replaces the default text.
func ClassifyHTTPError(statusCode int, message string) *FetchError {
	var fe *FetchError
	switch {
	case statusCode == http.StatusTooManyRequests:
		fe = NewRateLimitError(statusCode)
	case statusCode == http.StatusRequestTimeout:
		fe = NewTimeoutError(nil)
		fe.StatusCode = statusCode
	case statusCode >= 500:
		fe = NewServerError(statusCode)
	case statusCode >= 400:
		fe = NewClientError(statusCode, fmt.Sprintf("client error: HTTP %d", statusCode))
	default:
		fe = &FetchError{
			Type:       ErrorTypeUnknown,
			Retryable:  false,
			StatusCode: statusCode,
			Message:    fmt.Sprintf("unexpected status code: %d", statusCode),
		}
	}
	if message != "" {
		fe.Message = message
	}
	return fe
}

// ClassifyTransportError wraps an error returned before any HTTP status was
// received. Deadlines become timeout errors, everything else network errors.
func ClassifyTransportError(err error) *FetchError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewTimeoutError(err)
	}
	return NewNetworkError(err)
}
