// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers to distinguish
// between failure scenarios without inspecting driver errors. Every
// entity-specific not-found error wraps ErrNotFound, so callers may test
// for either.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Entity-specific not-found errors.
var (
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrCarNotFound     = fmt.Errorf("car %w", ErrNotFound)
	ErrBookingNotFound = fmt.Errorf("booking %w", ErrNotFound)
)

// ErrEmailExists is returned when registering an email that is already
// taken (MySQL unique-key violation on users.email).
var ErrEmailExists = errors.New("email already exists")
