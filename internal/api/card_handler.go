package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/rohitid33/sprint-rail/internal/api/shared"
	"github.com/rohitid33/sprint-rail/internal/domain"
	"github.com/rohitid33/sprint-rail/internal/service"
)

// structuralPlaceholder is the content of a structural card created without
// an explicit body. Such cards exist to hold a hierarchy node open.
const structuralPlaceholder = "New section - add your content here"

// CardHandler serves card creation, editing, and ingestion.
type CardHandler struct {
	content service.ContentService
	logger  *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(content service.ContentService, logger *slog.Logger) *CardHandler {
	if content == nil {
		panic("content service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CardHandler{
		content: content,
		logger:  logger.With(slog.String("component", "card_handler")),
	}
}

// AddCard handles POST of a new card at the topic addressed by the URL.
func (h *CardHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}

	var req AddCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationMessage(err))
		return
	}

	card, err := h.content.AddCard(r.Context(), owner, pathThrough(r, domain.LevelTopic), req.Content)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// SubmitRaw handles POST of raw text: the text is segmented into sentences
// and one scheduled card is created per sentence.
func (h *CardHandler) SubmitRaw(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}

	var req SubmitRawRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationMessage(err))
		return
	}

	path := domain.Path{
		Subject: req.Subject,
		Module:  req.Module,
		Chapter: req.Chapter,
		Section: req.Section,
		Topic:   req.Topic,
	}

	cards, err := h.content.IngestText(r.Context(), owner, path, req.RawText)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CardsResponse{Cards: cards})
}

// SubmitStructure handles POST of a structural card: a single unscheduled
// card materializing a hierarchy node.
func (h *CardHandler) SubmitStructure(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}

	var req SubmitStructureRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationMessage(err))
		return
	}

	content := req.Content
	if content == "" {
		content = structuralPlaceholder
	}

	card, err := h.content.AddStructuralCard(r.Context(), owner, req.Path(), content)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// DeleteCard handles DELETE of a single card.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := cardID(w, r)
	if !ok {
		return
	}

	if err := h.content.DeleteCard(r.Context(), owner, id); err != nil {
		RespondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateContent handles PATCH of a card's content. Keyword indices made
// stale by the edit are dropped from the stored card.
func (h *CardHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := cardID(w, r)
	if !ok {
		return
	}

	var req UpdateContentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationMessage(err))
		return
	}

	card, err := h.content.UpdateContent(r.Context(), owner, id, req.Content)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// UpdateKeywords handles PATCH of a card's keyword indices.
func (h *CardHandler) UpdateKeywords(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := cardID(w, r)
	if !ok {
		return
	}

	var req UpdateKeywordsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationMessage(err))
		return
	}

	if err := h.content.UpdateKeywords(r.Context(), owner, id, req.Keywords); err != nil {
		RespondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reorder handles PATCH of the card order inside the topic addressed by
// the URL.
func (h *CardHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}

	var req ReorderRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationMessage(err))
		return
	}

	ids := make([]uuid.UUID, len(req.CardIDs))
	for i, raw := range req.CardIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
			return
		}
		ids[i] = id
	}

	if err := h.content.Reorder(r.Context(), owner, pathThrough(r, domain.LevelTopic), ids); err != nil {
		RespondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
