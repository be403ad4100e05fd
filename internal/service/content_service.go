package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rohitid33/sprint-rail/internal/domain"
	"github.com/rohitid33/sprint-rail/internal/domain/srs"
	"github.com/rohitid33/sprint-rail/internal/ingest"
	"github.com/rohitid33/sprint-rail/internal/platform/logger"
	"github.com/rohitid33/sprint-rail/internal/store"
)

// ContentService provides operations on the content hierarchy and its cards.
type ContentService interface {
	// ListSegments returns the distinct child segment values at the given
	// level beneath the prefix.
	ListSegments(ctx context.Context, owner uuid.UUID, level domain.Level, prefix domain.Path) ([]string, error)

	// ListCards returns the cards at the exact path, in explicit order.
	ListCards(ctx context.Context, owner uuid.UUID, path domain.Path) ([]*domain.Card, error)

	// GetCard retrieves a single card by ID.
	GetCard(ctx context.Context, owner, id uuid.UUID) (*domain.Card, error)

	// AddCard creates a card at the given topic path and enters it into the
	// review rotation (stage 1, first review one day out).
	AddCard(ctx context.Context, owner uuid.UUID, path domain.Path, content string) (*domain.Card, error)

	// AddStructuralCard creates a card at a possibly partial path, outside
	// the review rotation (stage 0, no next review). Used to materialize a
	// hierarchy node before any real content exists.
	AddStructuralCard(ctx context.Context, owner uuid.UUID, path domain.Path, content string) (*domain.Card, error)

	// IngestText segments raw text into sentences and creates one scheduled
	// card per sentence at the given path, with extracted keywords. The
	// path may be partial; only the subject is required. The batch is
	// created atomically.
	IngestText(ctx context.Context, owner uuid.UUID, path domain.Path, raw string) ([]*domain.Card, error)

	// RenameSegment relabels the segment at the given level across every
	// matching card. Returns the number of cards touched; renaming a
	// segment to its current name is a successful no-op.
	RenameSegment(ctx context.Context, owner uuid.UUID, level domain.Level, prefix domain.Path, newName string) (int64, error)

	// DeleteTree removes every card at or beneath the prefix through the
	// given level. Returns the number of cards deleted.
	DeleteTree(ctx context.Context, owner uuid.UUID, level domain.Level, prefix domain.Path) (int64, error)

	// DeleteCard removes a single card.
	DeleteCard(ctx context.Context, owner, id uuid.UUID) error

	// UpdateContent replaces a card's content. Keyword indices that no
	// longer address a token of the new content are dropped.
	UpdateContent(ctx context.Context, owner, id uuid.UUID, content string) (*domain.Card, error)

	// UpdateKeywords replaces a card's keyword indices after validating
	// each against the card's token count.
	UpdateKeywords(ctx context.Context, owner, id uuid.UUID, keywords []int) error

	// Reorder sets the explicit order of the given cards within a topic to
	// their position in ids.
	Reorder(ctx context.Context, owner uuid.UUID, path domain.Path, ids []uuid.UUID) error
}

// contentServiceImpl implements the ContentService interface.
type contentServiceImpl struct {
	cards  store.CardStore
	db     *sql.DB
	logger *slog.Logger
}

// NewContentService creates a new ContentService.
// It returns an error if any of the required dependencies are nil.
func NewContentService(
	cards store.CardStore,
	db *sql.DB,
	logger *slog.Logger,
) (ContentService, error) {
	if cards == nil {
		return nil, fmt.Errorf("card store cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("database cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &contentServiceImpl{
		cards:  cards,
		db:     db,
		logger: logger.With(slog.String("component", "content_service")),
	}, nil
}

var _ ContentService = (*contentServiceImpl)(nil)

// ListSegments implements ContentService.ListSegments
func (s *contentServiceImpl) ListSegments(
	ctx context.Context,
	owner uuid.UUID,
	level domain.Level,
	prefix domain.Path,
) ([]string, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, level)
	}
	return s.cards.ListSegments(ctx, owner, level, prefix)
}

// ListCards implements ContentService.ListCards
func (s *contentServiceImpl) ListCards(
	ctx context.Context,
	owner uuid.UUID,
	path domain.Path,
) ([]*domain.Card, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}
	return s.cards.FindByPath(ctx, owner, path)
}

// GetCard implements ContentService.GetCard
func (s *contentServiceImpl) GetCard(ctx context.Context, owner, id uuid.UUID) (*domain.Card, error) {
	return s.cards.GetByID(ctx, owner, id)
}

// AddCard implements ContentService.AddCard
func (s *contentServiceImpl) AddCard(
	ctx context.Context,
	owner uuid.UUID,
	path domain.Path,
	content string,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if path.Topic == "" {
		return nil, fmt.Errorf("%w: topic", domain.ErrEmptySegment)
	}

	card, err := domain.NewCard(owner, path, content)
	if err != nil {
		return nil, err
	}
	card.Schedule = srs.NewScheduled(time.Now().UTC())

	if err := s.cards.Create(ctx, card); err != nil {
		return nil, NewServiceError("add_card", "failed to create card", err)
	}

	log.Info("card added",
		slog.String("card_id", card.ID.String()),
		slog.String("topic", path.Topic))
	return card, nil
}

// AddStructuralCard implements ContentService.AddStructuralCard
func (s *contentServiceImpl) AddStructuralCard(
	ctx context.Context,
	owner uuid.UUID,
	path domain.Path,
	content string,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Schedule stays zero-valued: structural cards enter the rotation only
	// when their topic is first reviewed.
	card, err := domain.NewCard(owner, path, content)
	if err != nil {
		return nil, err
	}

	if err := s.cards.Create(ctx, card); err != nil {
		return nil, NewServiceError("add_structural_card", "failed to create card", err)
	}

	log.Info("structural card added",
		slog.String("card_id", card.ID.String()),
		slog.String("subject", path.Subject))
	return card, nil
}

// IngestText implements ContentService.IngestText
func (s *contentServiceImpl) IngestText(
	ctx context.Context,
	owner uuid.UUID,
	path domain.Path,
	raw string,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if raw == "" {
		return nil, domain.ErrEmptyContent
	}
	if err := path.Validate(); err != nil {
		return nil, err
	}

	sentences := ingest.Sentences(raw)
	if len(sentences) == 0 {
		return nil, ErrNoSentences
	}

	now := time.Now().UTC()
	cards := make([]*domain.Card, 0, len(sentences))
	for i, sentence := range sentences {
		card, err := domain.NewCard(owner, path, sentence)
		if err != nil {
			return nil, err
		}
		card.Keywords = ingest.Keywords(sentence)
		card.Order = i
		card.Schedule = srs.NewScheduled(now)
		cards = append(cards, card)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.cards.WithTx(tx).CreateMultiple(ctx, cards)
	})
	if err != nil {
		log.Error("text ingestion failed",
			slog.String("error", err.Error()),
			slog.Int("sentence_count", len(sentences)))
		return nil, NewServiceError("ingest_text", "failed to create cards", err)
	}

	log.Info("text ingested",
		slog.String("subject", path.Subject),
		slog.Int("cards_created", len(cards)))
	return cards, nil
}

// RenameSegment implements ContentService.RenameSegment
func (s *contentServiceImpl) RenameSegment(
	ctx context.Context,
	owner uuid.UUID,
	level domain.Level,
	prefix domain.Path,
	newName string,
) (int64, error) {
	if !level.Valid() {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, level)
	}
	if newName == "" {
		return 0, fmt.Errorf("%w: new name", domain.ErrEmptySegment)
	}

	// Renaming to the current name is a successful no-op.
	if prefix.Segment(level) == newName {
		return 0, nil
	}

	return s.cards.Rename(ctx, owner, level, prefix, newName)
}

// DeleteTree implements ContentService.DeleteTree
func (s *contentServiceImpl) DeleteTree(
	ctx context.Context,
	owner uuid.UUID,
	level domain.Level,
	prefix domain.Path,
) (int64, error) {
	if !level.Valid() {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, level)
	}
	if prefix.Segment(level) == "" {
		return 0, fmt.Errorf("%w: %s", domain.ErrEmptySegment, level.String())
	}

	return s.cards.DeleteTree(ctx, owner, level, prefix)
}

// DeleteCard implements ContentService.DeleteCard
func (s *contentServiceImpl) DeleteCard(ctx context.Context, owner, id uuid.UUID) error {
	return s.cards.Delete(ctx, owner, id)
}

// UpdateContent implements ContentService.UpdateContent
func (s *contentServiceImpl) UpdateContent(
	ctx context.Context,
	owner, id uuid.UUID,
	content string,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if content == "" {
		return nil, domain.ErrEmptyContent
	}

	card, err := s.cards.GetByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	card.Content = content
	kept := card.ValidKeywords(card.Keywords)
	if len(kept) < len(card.Keywords) {
		log.Warn("dropping stale keyword indices after content edit",
			slog.String("card_id", id.String()),
			slog.Int("before", len(card.Keywords)),
			slog.Int("after", len(kept)))
	}
	card.Keywords = kept

	if err := s.cards.UpdateContent(ctx, owner, id, content, kept); err != nil {
		return nil, NewServiceError("update_content", "failed to update card", err)
	}

	return card, nil
}

// UpdateKeywords implements ContentService.UpdateKeywords
func (s *contentServiceImpl) UpdateKeywords(
	ctx context.Context,
	owner, id uuid.UUID,
	keywords []int,
) error {
	card, err := s.cards.GetByID(ctx, owner, id)
	if err != nil {
		return err
	}

	tokens := len(card.Tokens())
	for _, idx := range keywords {
		if idx < 0 || idx >= tokens {
			return fmt.Errorf("%w: %d (card has %d tokens)",
				domain.ErrInvalidKeywordIndex, idx, tokens)
		}
	}

	if err := s.cards.UpdateKeywords(ctx, owner, id, keywords); err != nil {
		return NewServiceError("update_keywords", "failed to update card", err)
	}
	return nil
}

// Reorder implements ContentService.Reorder
// Each card's order becomes its position in ids. The batch runs in one
// transaction so a missing card leaves the ordering untouched.
func (s *contentServiceImpl) Reorder(
	ctx context.Context,
	owner uuid.UUID,
	path domain.Path,
	ids []uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return ErrEmptyOrder
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.cards.WithTx(tx)
		for i, id := range ids {
			if err := txCards.UpdateOrder(ctx, owner, id, path, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("card reorder failed",
			slog.String("error", err.Error()),
			slog.Int("card_count", len(ids)))
		return err
	}

	return nil
}
