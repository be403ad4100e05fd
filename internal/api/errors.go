package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/rohitid33/sprint-rail/internal/api/shared"
	"github.com/rohitid33/sprint-rail/internal/domain"
	"github.com/rohitid33/sprint-rail/internal/service"
	"github.com/rohitid33/sprint-rail/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, store.ErrTopicNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, domain.ErrCardContentEmpty),
		errors.Is(err, domain.ErrEmptySegment),
		errors.Is(err, domain.ErrSubjectRequired),
		errors.Is(err, domain.ErrInvalidLevel),
		errors.Is(err, domain.ErrInvalidKeywordIndex),
		errors.Is(err, service.ErrNoSentences),
		errors.Is(err, service.ErrEmptyOrder):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrTopicNotFound):
		return "Topic not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, domain.ErrCardContentEmpty):
		return "Content cannot be empty"

	case errors.Is(err, domain.ErrEmptySegment):
		return "A required name is missing or empty"

	case errors.Is(err, domain.ErrSubjectRequired):
		return "Subject is required"

	case errors.Is(err, domain.ErrInvalidLevel):
		return "Invalid hierarchy level"

	case errors.Is(err, domain.ErrInvalidKeywordIndex):
		return "Keyword index out of range"

	case errors.Is(err, service.ErrNoSentences):
		return "Submitted text contains no sentences"

	case errors.Is(err, service.ErrEmptyOrder):
		return "At least one card ID is required"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationMessage turns a validator error into a client-safe
// message naming only the failed field, not the raw input.
func SanitizeValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return "Invalid request: field '" + verrs[0].Field() + "' failed validation"
	}
	return "Invalid request body"
}

// RespondServiceError is the common handler exit path for service-layer
// failures: map to a status code, pick the safe message, log the rest.
func RespondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
