// Package errs defines the failure kinds shared by the storage, domain and
// HTTP layers. Only the HTTP layer turns a Kind into a status code.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind uint8

const (
	// KindUnhandled is any failure that was not classified.
	KindUnhandled Kind = iota
	// KindInvalidRequest is a client error: bad body, bad query or a broken business rule.
	KindInvalidRequest
	// KindNotFound is returned when a referenced user does not exist.
	KindNotFound
	// KindStorage wraps failures coming from the relational store.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage"
	default:
		return "unhandled"
	}
}

// Error is a classified failure. Message is safe to show to clients for
// client-side kinds; Err carries the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidRequest returns a client error with the given public message.
func InvalidRequest(message string) error {
	return &Error{Kind: KindInvalidRequest, Message: message}
}

// NotFound returns a not-found error with the given public message.
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Storage wraps a store failure that happened while running op.
func Storage(op string, err error) error {
	return &Error{Kind: KindStorage, Message: "storage failure", Op: op, Err: err}
}

// KindOf reports the Kind of err. Unclassified errors are KindUnhandled.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnhandled
}

// Message returns the public message of a classified error, or an empty
// string when err is not an *Error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
