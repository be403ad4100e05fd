package api

import (
	"log/slog"
	"net/http"

	"github.com/rohitid33/sprint-rail/internal/api/shared"
	"github.com/rohitid33/sprint-rail/internal/domain"
	"github.com/rohitid33/sprint-rail/internal/service"
)

// TaxonomyHandler serves the hierarchy surface: enumeration of segments,
// topic card listings, renames, and cascade deletes.
type TaxonomyHandler struct {
	content service.ContentService
	logger  *slog.Logger
}

// NewTaxonomyHandler creates a new TaxonomyHandler.
func NewTaxonomyHandler(content service.ContentService, logger *slog.Logger) *TaxonomyHandler {
	if content == nil {
		panic("content service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaxonomyHandler{
		content: content,
		logger:  logger.With(slog.String("component", "taxonomy_handler")),
	}
}

// ListSegments returns a handler enumerating child segments at the given
// level; the parent segments come from the URL.
func (h *TaxonomyHandler) ListSegments(level domain.Level) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := callerID(w, r)
		if !ok {
			return
		}

		var prefix domain.Path
		if level > domain.LevelSubject {
			prefix = pathThrough(r, level-1)
		}

		segments, err := h.content.ListSegments(r.Context(), owner, level, prefix)
		if err != nil {
			RespondServiceError(w, r, err)
			return
		}

		shared.RespondWithJSON(w, r, http.StatusOK, SegmentsResponse{Segments: segments})
	}
}

// ListTopicCards handles GET of a topic's cards in explicit order.
func (h *TaxonomyHandler) ListTopicCards(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}

	cards, err := h.content.ListCards(r.Context(), owner, pathThrough(r, domain.LevelTopic))
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CardsResponse{Cards: cards})
}

// Rename returns a handler relabeling the segment at the given level across
// every card beneath it.
func (h *TaxonomyHandler) Rename(level domain.Level) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := callerID(w, r)
		if !ok {
			return
		}

		var req RenameRequest
		if err := shared.DecodeJSON(r, &req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := shared.ValidateRequest(req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationMessage(err))
			return
		}

		affected, err := h.content.RenameSegment(r.Context(), owner, level,
			pathThrough(r, level), req.NewName)
		if err != nil {
			RespondServiceError(w, r, err)
			return
		}

		shared.RespondWithJSON(w, r, http.StatusOK, AffectedResponse{Affected: affected})
	}
}

// Delete returns a handler removing every card at or beneath the segment at
// the given level.
func (h *TaxonomyHandler) Delete(level domain.Level) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := callerID(w, r)
		if !ok {
			return
		}

		deleted, err := h.content.DeleteTree(r.Context(), owner, level, pathThrough(r, level))
		if err != nil {
			RespondServiceError(w, r, err)
			return
		}

		shared.RespondWithJSON(w, r, http.StatusOK, DeletedResponse{Deleted: deleted})
	}
}
