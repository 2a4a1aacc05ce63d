// Package service implements the credential store, car inventory and
// booking lifecycle on top of the repositories.
package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure a caller is expected to handle is a *Error
// whose Kind is one of these, so callers use errors.Is to classify and
// read Message for the client-facing text. The API layer maps kinds to
// HTTP status codes.
var (
	// ErrValidation indicates malformed or missing input. Maps to 400.
	ErrValidation = errors.New("validation failed")

	// ErrPasswordPolicy indicates a password that fails the strength rules. Maps to 400.
	ErrPasswordPolicy = errors.New("password policy violation")

	// ErrDuplicateEmail indicates the email is already registered. Maps to 400.
	ErrDuplicateEmail = errors.New("duplicate email")

	// ErrInvalidCredentials indicates a failed login. Maps to 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidAdminKey indicates a wrong or unconfigured admin key. Maps to 401.
	ErrInvalidAdminKey = errors.New("invalid admin key")

	// ErrForbidden indicates an authenticated actor lacking the required claim. Maps to 403.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates an unknown id. Maps to 404.
	ErrNotFound = errors.New("not found")
)

// Client-facing messages shared between services and handlers.
const (
	MsgMissingFields      = "Missing required fields"
	MsgPasswordPolicy     = "Password must be at least 8 characters long and include an uppercase letter, a lowercase letter, a number and a special character"
	MsgEmailExists        = "Email already exists"
	MsgInvalidCredentials = "Invalid email or password"
	MsgInvalidAdminKey    = "Invalid Admin Key"
	MsgAdminRequired      = "Admin access required"
	MsgUserRequired       = "Regular user account required"
	MsgCarNotFound        = "Car not found"
	MsgBookingNotFound    = "Booking not found"
	MsgInvalidDate        = "Invalid date format"
	MsgMpesaRequired      = "M-Pesa phone number required"
	MsgInvalidStatus      = "Invalid status"
)

// Error pairs an error kind with the message returned to the client.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%v: %s", e.Kind, e.Message) }

// Unwrap exposes Kind to errors.Is.
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Validation returns an ErrValidation error with msg.
func Validation(msg string) error { return newError(ErrValidation, msg) }

// Forbidden returns an ErrForbidden error with the admin-required message.
func Forbidden() error { return newError(ErrForbidden, MsgAdminRequired) }

// Message returns the client-facing message carried by err, if any.
func Message(err error) (string, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Message, true
	}
	return "", false
}
