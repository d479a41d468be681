package service

import (
	"errors"
	"strings"
)

// Error kinds reported to clients. Anything else is an internal failure.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrTooLarge     = errors.New("too large")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error carries one of the kinds above with messages meant for the client.
type Error struct {
	Kind     error
	Messages []string
}

func (e *Error) Error() string {
	if len(e.Messages) == 0 {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + strings.Join(e.Messages, "; ")
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, messages ...string) *Error {
	return &Error{Kind: kind, Messages: messages}
}

func invalidInput(messages ...string) error { return newError(ErrInvalidInput, messages...) }
func tooLarge(messages ...string) error     { return newError(ErrTooLarge, messages...) }
func notFound(messages ...string) error     { return newError(ErrNotFound, messages...) }
func unauthorized(messages ...string) error { return newError(ErrUnauthorized, messages...) }

// Messages returns the client messages of err, or nil when err is not an
// *Error.
func Messages(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Messages
	}
	return nil
}
