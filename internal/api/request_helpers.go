package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rohitid33/sprint-rail/internal/api/shared"
	"github.com/rohitid33/sprint-rail/internal/domain"
)

// callerID extracts the caller's user ID injected by the identity
// middleware. A missing ID means the middleware chain is misconfigured.
func callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := shared.GetCallerID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusInternalServerError,
			"An unexpected error occurred")
		return uuid.Nil, false
	}
	return id, true
}

// urlSegment reads a taxonomy segment from the URL, percent-decoded.
// Segment names may contain spaces and punctuation.
func urlSegment(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// pathThrough assembles a domain path from the URL segments down to and
// including the given level.
func pathThrough(r *http.Request, level domain.Level) domain.Path {
	var p domain.Path
	for l := domain.LevelSubject; l <= level; l++ {
		p = p.WithSegment(l, urlSegment(r, l.String()))
	}
	return p
}

// cardID reads and parses the card ID URL parameter.
func cardID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "cardID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return uuid.Nil, false
	}
	return id, true
}
