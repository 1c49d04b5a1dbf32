// Package apperr defines the error taxonomy shared by services and transports.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the client.
type Kind int

const (
	KindStore Kind = iota // underlying store failure; generic message only
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
	KindUnavailable
)

// Error is a classified error with a client-safe message and an optional cause
// that is only ever logged.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error  { return &Error{Kind: KindValidation, Msg: msg} }
func Auth(msg string) *Error        { return &Error{Kind: KindAuth, Msg: msg} }
func Forbidden(msg string) *Error   { return &Error{Kind: KindForbidden, Msg: msg} }
func NotFound(msg string) *Error    { return &Error{Kind: KindNotFound, Msg: msg} }
func Conflict(msg string) *Error    { return &Error{Kind: KindConflict, Msg: msg} }
func Unavailable(msg string) *Error { return &Error{Kind: KindUnavailable, Msg: msg} }

// Store wraps an underlying failure; msg is what the client sees.
func Store(msg string, err error) *Error {
	return &Error{Kind: KindStore, Msg: msg, Err: err}
}

// KindOf returns the kind of err; unclassified errors are store errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-visible message for err. Unclassified errors never
// leak their text.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return "Server error"
}
