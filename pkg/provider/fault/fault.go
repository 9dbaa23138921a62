// Package fault defines the typed failure kinds shared by all Murshed backend
// adapters. Adapters classify transport and protocol failures into a small
// closed set of kinds so that callers can branch on the kind without parsing
// error strings.
//
// A *Error always wraps the underlying cause (when there is one), so standard
// errors.Is / errors.As chains keep working across the adapter boundary.
package fault

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind identifies the category of an adapter failure.
type Kind string

const (
	// KindNetwork covers transport-level failures: DNS, connection refused,
	// resets mid-body.
	KindNetwork Kind = "network"

	// KindTimeout means the call did not complete within its deadline.
	KindTimeout Kind = "timeout"

	// KindBackendRejected means the backend answered with a non-2xx status.
	// Message carries the backend-provided explanation when one was present.
	KindBackendRejected Kind = "backend_rejected"

	// KindEmptyAudio means a capture was empty or the backend produced no
	// usable transcript for it.
	KindEmptyAudio Kind = "empty_audio"

	// KindUnsupportedDocument means a file failed local type validation
	// before any network call was made.
	KindUnsupportedDocument Kind = "unsupported_document"
)

// IsValid reports whether k is a recognised failure kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindNetwork, KindTimeout, KindBackendRejected, KindEmptyAudio, KindUnsupportedDocument:
		return true
	}
	return false
}

// Error is a classified adapter failure.
type Error struct {
	// Kind is the failure category.
	Kind Kind

	// Message is a human-readable description. For KindBackendRejected this
	// is the backend-provided message when available.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified failure without an underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a classified failure wrapping err.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the failure kind from err. It returns the empty Kind when
// err is nil or no *Error is found in the chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// Is reports whether err carries the given failure kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// FromTransport classifies a transport-level error from an HTTP round trip.
// Deadline expiry (context or net timeout) maps to KindTimeout; everything
// else maps to KindNetwork.
func FromTransport(op string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(KindTimeout, op+" timed out", err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return Wrap(KindTimeout, op+" timed out", err)
	}
	return Wrap(KindNetwork, op+" failed", err)
}
