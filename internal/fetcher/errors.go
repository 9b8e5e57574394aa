package fetcher

import (
	"fmt"
)

// FailureKind represents the category of failure that occurred while
// ingesting ticker data
type FailureKind string

const (
	// KindTransport indicates the API could not be reached or returned a
	// non-2xx status (connection error, DNS, timeout, HTTP failure)
	KindTransport FailureKind = "transport"
	// KindAPIError indicates the HTTP call succeeded but the API envelope
	// reported an application-level failure (non-zero retCode)
	KindAPIError FailureKind = "api_error"
	// KindInvalidRecord indicates an individual ticker item was malformed,
	// e.g. missing its symbol
	KindInvalidRecord FailureKind = "invalid_record"
)

// Failure represents a structured error from the ingestion pipeline
type Failure struct {
	Kind       FailureKind
	StatusCode int
	RetCode    int
	Symbol     string
	Message    string
	Cause      error
}

// Error implements the error interface
func (f *Failure) Error() string {
	switch {
	case f.StatusCode > 0:
		return fmt.Sprintf("%s failure (status %d): %s", f.Kind, f.StatusCode, f.Message)
	case f.RetCode != 0:
		return fmt.Sprintf("%s failure (retCode %d): %s", f.Kind, f.RetCode, f.Message)
	default:
		return fmt.Sprintf("%s failure: %s", f.Kind, f.Message)
	}
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (f *Failure) Unwrap() error {
	return f.Cause
}

// NewTransportFailure creates a transport failure from a network-level error
func NewTransportFailure(cause error) *Failure {
	return &Failure{
		Kind:    KindTransport,
		Message: "request to market API failed",
		Cause:   cause,
	}
}

// NewStatusFailure creates a transport failure from a non-2xx HTTP status
func NewStatusFailure(statusCode int) *Failure {
	return &Failure{
		Kind:       KindTransport,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("market API returned HTTP %d", statusCode),
	}
}

// NewAPIFailure creates an application-level failure from the response envelope
func NewAPIFailure(retCode int, retMsg string) *Failure {
	return &Failure{
		Kind:    KindAPIError,
		RetCode: retCode,
		Message: retMsg,
	}
}

// NewInvalidRecordFailure creates a failure for a malformed ticker item
func NewInvalidRecordFailure(message string) *Failure {
	return &Failure{
		Kind:    KindInvalidRecord,
		Message: message,
	}
}
