// Package apperrors implements the service's closed error taxonomy: every
// error that crosses a component boundary is one of User, Gateway, or
// Internal (spec.md §7). The shape (typed error, HTTP-status awareness,
// New/Wrap/FromError) follows noah-isme-sma-adp-api's pkg/errors; the three
// kinds and their propagation rules follow original_source's
// common_errors/src/errors.rs.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the closed set of error categories the system reasons about.
type Kind int

const (
	// KindUser marks bad input: unknown type, invalid name, out-of-range
	// offset, empty query. HTTP 400. Never engages cooldown.
	KindUser Kind = iota
	// KindGateway marks failure reaching an external system: transport
	// error, non-2xx, timeout. HTTP 502. Engages cooldown on the schedule
	// path.
	KindGateway
	// KindInternal marks decoding, mapping, or invariant violations.
	// HTTP 500. Never engages cooldown.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindGateway:
		return "gateway"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// HTTPStatus maps a Kind to the status code mandated by spec.md §6/§7.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUser:
		return http.StatusBadRequest
	case KindGateway:
		return http.StatusBadGateway
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Error is the single error type carried across every layer of the
// service. Leaf layers construct one with New*; intermediate layers wrap
// with context via Wrap, never changing Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewUser builds a KindUser error from a message only; user errors carry
// the cause as the user-visible message itself (spec.md §7).
func NewUser(message string) *Error {
	return &Error{Kind: KindUser, Message: message}
}

// NewGateway builds a KindGateway error wrapping the transport/decoding
// failure that triggered it.
func NewGateway(message string, cause error) *Error {
	return &Error{Kind: KindGateway, Message: message, Err: cause}
}

// NewInternal builds a KindInternal error wrapping an invariant violation
// or mapping failure.
func NewInternal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: cause}
}

// Wrap annotates err with additional context without changing its Kind. If
// err is not already an *Error it is treated as KindInternal.
func Wrap(err error, message string) *Error {
	base := FromError(err)
	return &Error{Kind: base.Kind, Message: message, Err: err}
}

// FromError normalizes any error into an *Error, defaulting to KindInternal
// for errors that did not originate from this package.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindInternal, Message: err.Error(), Err: err}
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
