package backend

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures of calls to the external backend.
type ErrorKind int

const (
	// ErrKindNetwork means the request could not be sent or the response
	// could not be received.
	ErrKindNetwork ErrorKind = iota
	// ErrKindBackendRejected means the backend answered with a non-2xx
	// status and a message payload.
	ErrKindBackendRejected
	// ErrKindMalformedResponse means the response body was not valid JSON.
	// The backend is known to return HTML or plain-text error pages; the raw
	// text is preserved on the error.
	ErrKindMalformedResponse
	// ErrKindAuth means the token was missing, invalid or expired.
	ErrKindAuth
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindNetwork:
		return "network"
	case ErrKindBackendRejected:
		return "backend_rejected"
	case ErrKindMalformedResponse:
		return "malformed_response"
	case ErrKindAuth:
		return "auth"
	default:
		return "unknown"
	}
}

// Error is the error type returned by all Client methods.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	RawBody    string
	Err        error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %s error: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("backend %s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("backend %s error (status %d)", e.Kind, e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind of err, or ok=false when err did not
// originate from the backend client.
func KindOf(err error) (ErrorKind, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is a backend error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
