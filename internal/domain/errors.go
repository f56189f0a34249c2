package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned by stores when a lookup has no match.
var ErrNotFound = errors.New("not found")

// TransportError is a network-level failure talking to the source.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError is a non-200 answer from the source.
type RemoteError struct {
	URL        string
	StatusCode int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("error fetching data, status code: %d", e.StatusCode)
}

// InvalidResponseError is a payload that is not the expected JSON shape.
type InvalidResponseError struct {
	URL string
	Err error
}

func (e *InvalidResponseError) Error() string {
	if e.Err == nil {
		return "invalid response from the source site"
	}
	return fmt.Sprintf("invalid response from the source site: %v", e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// RecordReconcileError is a per-record store failure. It never aborts a step.
type RecordReconcileError struct {
	SourceID int64
	Reason   error
}

func (e *RecordReconcileError) Error() string {
	return fmt.Sprintf("record %d: %v", e.SourceID, e.Reason)
}

func (e *RecordReconcileError) Unwrap() error { return e.Reason }

// DependentResourceError is a media or taxonomy failure. It is logged only.
type DependentResourceError struct {
	Kind string
	Err  error
}

func (e *DependentResourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *DependentResourceError) Unwrap() error { return e.Err }

// InternalError is an unexpected fault recovered at the step boundary.
type InternalError struct {
	Message string
	Stack   string
}

func (e *InternalError) Error() string {
	return "Error: " + e.Message
}

// IsRetryable reports whether re-issuing the same step may succeed.
func IsRetryable(err error) bool {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return true
	}
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.StatusCode >= http.StatusInternalServerError ||
			remoteErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}
