// Package apperr defines the typed error taxonomy shared by services and the
// HTTP boundary. Services raise errors with a Kind; the handler layer maps
// the kind to a transport status and envelope fields.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the request boundary.
type Kind int

const (
	// Validation marks malformed or missing input (422).
	Validation Kind = iota + 1
	// NotFound marks an absent referenced entity (404).
	NotFound
	// Conflict marks an illegal state transition or duplicate action (409).
	Conflict
	// Unauthorized marks a missing or invalid identity (401).
	Unauthorized
	// Internal marks anything unexpected (500).
	Internal
)

// Error is a kinded error. Fields optionally carries field-level validation
// detail for the 422 envelope.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithFields attaches field-level detail to a validation error.
func (e *Error) WithFields(fields map[string]string) *Error {
	e.Fields = fields
	return e
}

// KindOf returns the kind of err, or Internal if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
