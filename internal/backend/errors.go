package backend

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed backend call.
type ErrorKind string

const (
	// KindTransport covers network and timeout failures before any response.
	KindTransport ErrorKind = "transport"
	// KindUnauthorized is a 401: the bearer token is missing or expired.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindValidation is a non-2xx with field errors keyed by field name.
	KindValidation ErrorKind = "validation"
	// KindRejected is a business-rule rejection: success=false inside a 200.
	KindRejected ErrorKind = "rejected"
	// KindServer is any other non-2xx response.
	KindServer ErrorKind = "server"
)

// Error is the typed failure the client returns for every unsuccessful call.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("backend %s error: %v", e.Kind, e.Err)
	case e.Message != "":
		return fmt.Sprintf("backend %s error: %s", e.Kind, e.Message)
	default:
		return fmt.Sprintf("backend %s error (status %d)", e.Kind, e.Status)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns the server-provided message when there is one, else a
// generic failure message safe to show a customer.
func (e *Error) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return "Something went wrong. Please try again."
}

// IsUnauthorized reports whether err is a backend 401.
func IsUnauthorized(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == KindUnauthorized
}

// IsTransport reports whether err is a network-level failure.
func IsTransport(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == KindTransport
}
