// Package api implements the HTTP handlers for the study-card service.
package api

import (
	"time"

	"github.com/rohitid33/sprint-rail/internal/domain"
)

// RenameRequest renames a hierarchy segment.
type RenameRequest struct {
	NewName string `json:"newName" validate:"required"`
}

// AddCardRequest creates a card at the topic addressed by the URL.
type AddCardRequest struct {
	Content string `json:"content" validate:"required"`
}

// SubmitRawRequest carries raw text to be segmented into sentence cards at
// the path named in the body. Only the subject is required; cards may land
// at a partial path.
type SubmitRawRequest struct {
	Subject string `json:"subject" validate:"required"`
	Module  string `json:"module"`
	Chapter string `json:"chapter"`
	Section string `json:"section"`
	Topic   string `json:"topic"`
	RawText string `json:"rawText" validate:"required"`
}

// SubmitStructureRequest materializes a hierarchy node by creating a single
// structural card at a possibly partial path. Content is optional.
type SubmitStructureRequest struct {
	Subject string `json:"subject" validate:"required"`
	Module  string `json:"module"`
	Chapter string `json:"chapter"`
	Section string `json:"section"`
	Topic   string `json:"topic"`
	Content string `json:"content"`
}

// Path assembles the request's segments into a domain path.
func (r SubmitStructureRequest) Path() domain.Path {
	return domain.Path{
		Subject: r.Subject,
		Module:  r.Module,
		Chapter: r.Chapter,
		Section: r.Section,
		Topic:   r.Topic,
	}
}

// ReorderRequest sets the card order inside the topic addressed by the URL.
type ReorderRequest struct {
	CardIDs []string `json:"cardIds" validate:"required,min=1,dive,uuid"`
}

// UpdateContentRequest replaces a card's content.
type UpdateContentRequest struct {
	Content string `json:"content" validate:"required"`
}

// UpdateKeywordsRequest replaces a card's keyword indices. An empty list
// clears them.
type UpdateKeywordsRequest struct {
	Keywords []int `json:"keywords" validate:"dive,gte=0"`
}

// LegacyReviewRequest records one legacy review outcome.
type LegacyReviewRequest struct {
	Remembered *bool `json:"remembered" validate:"required"`
}

// TopicReviewRequest records one staged review outcome for a whole topic.
// Performance is an opaque caller-supplied score; the scheduler only stores
// it.
type TopicReviewRequest struct {
	Success     *bool   `json:"success" validate:"required"`
	Performance float64 `json:"performance"`
}

// BlanksRequest replaces the caller's forgotten-blank set for a card.
type BlanksRequest struct {
	Blanks []int `json:"blanks" validate:"dive,gte=0"`
}

// SegmentsResponse lists the child segment values beneath a node.
type SegmentsResponse struct {
	Segments []string `json:"segments"`
}

// CardsResponse lists cards.
type CardsResponse struct {
	Cards []*domain.Card `json:"cards"`
}

// AffectedResponse reports how many cards a rename touched.
type AffectedResponse struct {
	Affected int64 `json:"affected"`
}

// DeletedResponse reports how many cards a cascade delete removed.
type DeletedResponse struct {
	Deleted int64 `json:"deleted"`
}

// ReviewResponse carries a card's state after a legacy review.
type ReviewResponse struct {
	Card       *domain.Card `json:"card"`
	NextReview time.Time    `json:"nextReview"`
}

// TopicReviewResponse carries the outcome of a staged topic review.
type TopicReviewResponse struct {
	Topic      string     `json:"topic"`
	CardCount  int        `json:"cardCount"`
	Stage      int        `json:"stage"`
	NextReview *time.Time `json:"nextReview,omitempty"`
}

// BlanksResponse carries the caller's forgotten-blank state for a card.
type BlanksResponse struct {
	Blanks []int       `json:"blanks"`
	Stats  map[int]int `json:"stats,omitempty"`
}

// TokenResponse carries the signed default token.
type TokenResponse struct {
	Token string `json:"token"`
}
