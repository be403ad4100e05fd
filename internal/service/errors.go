// Package service provides application-level services for managing the
// content hierarchy, card reviews, and forgotten-blank analytics.
package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check these with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrNoSentences indicates raw text submitted for ingestion produced no
	// sentences after segmentation. API layer should map this to HTTP 400.
	ErrNoSentences = errors.New("raw text contains no sentences")

	// ErrEmptyOrder indicates a reorder request carried no card IDs.
	// API layer should map this to HTTP 400.
	ErrEmptyOrder = errors.New("reorder requires at least one card ID")
)

// ServiceError wraps a failure inside the service layer with the operation
// that produced it. The wrapped error keeps its sentinel identity for
// errors.Is checks at the API boundary.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
