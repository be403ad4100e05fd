// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptySegment is returned when a hierarchy segment that must be
	// present is empty, e.g. the new name of a rename operation.
	ErrEmptySegment = errors.New("hierarchy segment cannot be empty")

	// ErrInvalidLevel is returned when a hierarchy level is out of range
	// for the requested operation.
	ErrInvalidLevel = errors.New("invalid hierarchy level")

	// ErrInvalidKeywordIndex is returned when a keyword index is negative
	// or points past the end of the card's token list.
	ErrInvalidKeywordIndex = errors.New("keyword index out of range")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
