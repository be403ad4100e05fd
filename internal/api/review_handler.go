package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rohitid33/sprint-rail/internal/api/shared"
	"github.com/rohitid33/sprint-rail/internal/domain"
	"github.com/rohitid33/sprint-rail/internal/service"
)

// ReviewHandler serves the spaced-repetition surface: topic and card
// reviews, due sets, performance summaries, and forgotten blanks.
type ReviewHandler struct {
	reviews service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews service.ReviewService, logger *slog.Logger) *ReviewHandler {
	if reviews == nil {
		panic("review service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger.With(slog.String("component", "review_handler")),
	}
}

// ReviewTopic handles POST of a staged review outcome for every card in the
// topic named in the URL.
func (h *ReviewHandler) ReviewTopic(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}

	var req TopicReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationMessage(err))
		return
	}

	topic := urlSegment(r, "topic")
	cards, err := h.reviews.ReviewTopic(r.Context(), owner, topic, *req.Success, req.Performance)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	resp := TopicReviewResponse{Topic: topic, CardCount: len(cards)}
	for _, card := range cards {
		if card.Schedule.Stage > resp.Stage {
			resp.Stage = card.Schedule.Stage
		}
		next := card.Schedule.NextReview
		if next != nil && (resp.NextReview == nil || next.Before(*resp.NextReview)) {
			resp.NextReview = next
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// legacyReviewFn is either of the two per-card legacy review paths.
type legacyReviewFn func(ctx context.Context, owner, id uuid.UUID, remembered bool) (*domain.Card, error)

// ReviewCard handles PATCH of a legacy per-card review outcome.
func (h *ReviewHandler) ReviewCard(w http.ResponseWriter, r *http.Request) {
	h.legacyReview(w, r, h.reviews.ReviewCard)
}

// ReviewCardByHistory handles POST of a legacy review whose interval
// depends on the card's review count.
func (h *ReviewHandler) ReviewCardByHistory(w http.ResponseWriter, r *http.Request) {
	h.legacyReview(w, r, h.reviews.ReviewCardByHistory)
}

func (h *ReviewHandler) legacyReview(w http.ResponseWriter, r *http.Request, review legacyReviewFn) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := cardID(w, r)
	if !ok {
		return
	}

	var req LegacyReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationMessage(err))
		return
	}

	card, err := review(r.Context(), owner, id, *req.Remembered)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	resp := ReviewResponse{Card: card}
	if card.NextReview != nil {
		resp.NextReview = *card.NextReview
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// DueLegacy handles GET of cards whose legacy next-review date has arrived.
func (h *ReviewHandler) DueLegacy(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}

	cards, err := h.reviews.DueLegacy(r.Context(), owner, time.Now())
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CardsResponse{Cards: cards})
}

// DueToday handles GET of cards whose staged review has come due, grouped
// by topic.
func (h *ReviewHandler) DueToday(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}

	grouped, err := h.reviews.DueToday(r.Context(), owner, time.Now())
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, grouped)
}

// DueTomorrow handles GET of cards due within the next calendar day,
// grouped by topic.
func (h *ReviewHandler) DueTomorrow(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}

	grouped, err := h.reviews.DueTomorrow(r.Context(), owner, time.Now())
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, grouped)
}

// Performance handles GET of the aggregate review statistics for the topic
// at the full taxonomy path.
func (h *ReviewHandler) Performance(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}

	perf, err := h.reviews.Performance(r.Context(), owner, pathThrough(r, domain.LevelTopic))
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, perf)
}

// GetBlanks handles GET of the caller's forgotten-blank set for a card.
func (h *ReviewHandler) GetBlanks(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := cardID(w, r)
	if !ok {
		return
	}

	blanks, err := h.reviews.GetBlanks(r.Context(), owner, id)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BlanksResponse{Blanks: blanks})
}

// UpdateBlanks handles PATCH of the caller's forgotten-blank set for a
// card.
func (h *ReviewHandler) UpdateBlanks(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := cardID(w, r)
	if !ok {
		return
	}

	var req BlanksRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationMessage(err))
		return
	}

	rec, err := h.reviews.UpdateBlanks(r.Context(), owner, id, req.Blanks)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BlanksResponse{
		Blanks: rec.Blanks,
		Stats:  rec.Stats,
	})
}
