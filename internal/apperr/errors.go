// Package apperr holds the sentinel errors shared across notecover packages.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")

	// ErrMalformedDrop rejects a dropped item that is not an image file.
	ErrMalformedDrop = errors.New("dropped file is not an image")

	// ErrImportFailure wraps any IO failure while importing a dropped file.
	ErrImportFailure = errors.New("import failed")

	// ErrNoActiveNote is returned when a drop arrives with no note open.
	ErrNoActiveNote = errors.New("no active note")
)
