package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rohitid33/sprint-rail/internal/domain"
)

// CardStore defines the interface for card persistence. Every method is
// scoped by the owning user: cards created by someone else are invisible,
// and owner-mismatched IDs behave exactly like missing ones.
type CardStore interface {
	// Create saves a single card. Returns validation errors wrapped in
	// ErrInvalidEntity if the card data is invalid.
	Create(ctx context.Context, card *domain.Card) error

	// CreateMultiple saves multiple cards. Run it inside a transaction via
	// RunInTransaction and WithTx when the batch must be all-or-nothing,
	// as ingestion does.
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID retrieves an owner's card by ID.
	// Returns ErrCardNotFound if the card does not exist or belongs to
	// a different owner.
	GetByID(ctx context.Context, owner, id uuid.UUID) (*domain.Card, error)

	// Delete removes an owner's card by ID.
	// Returns ErrCardNotFound if nothing was deleted.
	Delete(ctx context.Context, owner, id uuid.UUID) error

	// ListSegments returns the distinct values of the segment at the given
	// level among the owner's cards matching the parent prefix (the
	// segments of prefix above level). Empty values are excluded at
	// non-root levels. No ordering is guaranteed.
	ListSegments(ctx context.Context, owner uuid.UUID, level domain.Level, prefix domain.Path) ([]string, error)

	// FindByPath returns the owner's cards at the exact five-segment path,
	// ordered by the explicit card order, then creation time.
	FindByPath(ctx context.Context, owner uuid.UUID, path domain.Path) ([]*domain.Card, error)

	// FindByTopic returns all of the owner's cards whose topic segment
	// equals topic, regardless of the rest of the path.
	FindByTopic(ctx context.Context, owner uuid.UUID, topic string) ([]*domain.Card, error)

	// Rename relabels the segment at the given level from prefix.Segment(level)
	// to newName on every card matching prefix through that level, in one
	// statement. Deeper segments are untouched. Returns the affected count.
	Rename(ctx context.Context, owner uuid.UUID, level domain.Level, prefix domain.Path, newName string) (int64, error)

	// DeleteTree removes every card matching prefix through the given level,
	// regardless of deeper segments. This is the only cascade mechanism.
	// Returns the number of deleted cards.
	DeleteTree(ctx context.Context, owner uuid.UUID, level domain.Level, prefix domain.Path) (int64, error)

	// UpdateContent replaces a card's content and keywords in one write.
	// Callers pass the keyword set they want persisted alongside the new
	// content (typically the old set with stale indices dropped).
	UpdateContent(ctx context.Context, owner, id uuid.UUID, content string, keywords []int) error

	// UpdateKeywords replaces a card's keyword indices.
	UpdateKeywords(ctx context.Context, owner, id uuid.UUID, keywords []int) error

	// UpdateOrder sets the explicit order of a single card within its topic.
	UpdateOrder(ctx context.Context, owner, id uuid.UUID, path domain.Path, order int) error

	// AppendReview appends a legacy review record and sets the legacy
	// next-review date.
	AppendReview(ctx context.Context, owner, id uuid.UUID, rec domain.ReviewRecord, next time.Time) error

	// UpdateSchedule replaces a card's staged schedule state.
	UpdateSchedule(ctx context.Context, owner, id uuid.UUID, sched domain.ReviewSchedule) error

	// FindLegacyDue returns the owner's cards whose legacy next-review date
	// has arrived.
	FindLegacyDue(ctx context.Context, owner uuid.UUID, now time.Time) ([]*domain.Card, error)

	// FindScheduledDue returns the owner's cards whose staged next-review
	// date is at or before until.
	FindScheduledDue(ctx context.Context, owner uuid.UUID, until time.Time) ([]*domain.Card, error)

	// FindScheduledBetween returns the owner's cards whose staged
	// next-review date falls within [from, to).
	FindScheduledBetween(ctx context.Context, owner uuid.UUID, from, to time.Time) ([]*domain.Card, error)

	// UpdateBlanks replaces the full forgotten-blanks map of a card.
	UpdateBlanks(ctx context.Context, owner, id uuid.UUID, blanks map[string]domain.BlankRecord) error

	// WithTx returns a CardStore bound to the given transaction.
	WithTx(tx *sql.Tx) CardStore
}
