// Package apperr defines the error taxonomy used across the request
// pipeline and the page handlers.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	// KindAuthExpired marks a terminal 401: refresh failed or a retry got
	// 401 again. The UI layer redirects to the login page on it.
	KindAuthExpired Kind = "auth_expired"
	KindForbidden   Kind = "forbidden"
	KindNotFound    Kind = "not_found"
	// KindValidation carries the server's message body verbatim for the
	// form layer.
	KindValidation Kind = "validation"
	KindServer     Kind = "server"
	KindNetwork    Kind = "network"
)

// Error is the single error type returned by the API client. StatusCode is
// the HTTP status that produced it (0 for transport failures).
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func AuthExpired(msg string, err error) *Error {
	return &Error{Kind: KindAuthExpired, Message: msg, StatusCode: 401, Err: err}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg, StatusCode: 403}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg, StatusCode: 404}
}

func Validation(msg string, statusCode int) *Error {
	return &Error{Kind: KindValidation, Message: msg, StatusCode: statusCode}
}

func Server(msg string, statusCode int) *Error {
	return &Error{Kind: KindServer, Message: msg, StatusCode: statusCode}
}

func Network(err error) *Error {
	return &Error{Kind: KindNetwork, Message: fmt.Sprintf("backend unavailable: %v", err), Err: err}
}

// From extracts the *Error from an error chain.
func From(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
