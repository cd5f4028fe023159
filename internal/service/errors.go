package service

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")

	// ErrAmbiguous is returned by assistant title lookups that match more
	// than one entity; the tool must resolve exactly one.
	ErrAmbiguous = errors.New("ambiguous match")
)
