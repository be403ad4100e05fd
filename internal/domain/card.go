package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardOwnerEmpty is returned when a card's owner ID is empty or nil.
	ErrCardOwnerEmpty = errors.New("card owner ID cannot be empty")

	// ErrCardContentEmpty is returned when a card's content is empty.
	ErrCardContentEmpty = errors.New("card content cannot be empty")
)

// Card is the only persisted entity: one atomic fact (usually a single
// sentence) with its full denormalized taxonomy path, the legacy and staged
// scheduling state, and per-user forgotten-blank analytics.
//
// Blanks is keyed by the user ID string so there is at most one entry per
// user per card.
type Card struct {
	ID            uuid.UUID              `json:"id"`
	Path          Path                   `json:"path"`
	Content       string                 `json:"content"`
	Keywords      []int                  `json:"keywords"`
	Order         int                    `json:"order"`
	ReviewHistory []ReviewRecord         `json:"reviewHistory"`
	NextReview    *time.Time             `json:"nextReview,omitempty"`
	Schedule      ReviewSchedule         `json:"reviewSchedule"`
	Blanks        map[string]BlankRecord `json:"forgottenBlanks,omitempty"`
	CreatedBy     uuid.UUID              `json:"createdBy"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// NewCard creates a card owned by the given user at the given path.
// It generates the card ID, stamps creation time, and leaves the schedule
// zero-valued (stage 0, unscheduled); callers that want the card in the
// review rotation set Schedule explicitly.
func NewCard(owner uuid.UUID, path Path, content string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:        uuid.New(),
		Path:      path,
		Content:   content,
		Keywords:  []int{},
		CreatedBy: owner,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.CreatedBy == uuid.Nil {
		return ErrCardOwnerEmpty
	}

	if c.Content == "" {
		return ErrCardContentEmpty
	}

	if err := c.Path.Validate(); err != nil {
		return err
	}

	for _, idx := range c.Keywords {
		if idx < 0 {
			return ErrInvalidKeywordIndex
		}
	}

	return nil
}

// Tokens returns the whitespace-delimited tokens of the card's content.
// Keyword and blank indices refer to positions in this slice.
func (c *Card) Tokens() []string {
	return strings.Fields(c.Content)
}

// ValidKeywords filters the given indices down to those addressing an
// actual token of the card's content. Indices become stale when content is
// edited; callers use this to drop them rather than persist dangling ones.
func (c *Card) ValidKeywords(indices []int) []int {
	n := len(c.Tokens())
	valid := make([]int, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < n {
			valid = append(valid, idx)
		}
	}
	return valid
}
