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
	"github.com/rohitid33/sprint-rail/internal/platform/logger"
	"github.com/rohitid33/sprint-rail/internal/store"
)

// TopicPerformance summarizes a topic's review history. Accuracy is nil
// when no reviews have been recorded.
type TopicPerformance struct {
	Topic      string     `json:"topic"`
	CardCount  int        `json:"cardCount"`
	Total      int        `json:"totalReviews"`
	Correct    int        `json:"correctReviews"`
	Accuracy   *float64   `json:"accuracy"`
	LastReview *time.Time `json:"lastReview,omitempty"`
}

// ReviewService provides spaced-repetition review operations: staged topic
// reviews, the two legacy per-card paths, due-set queries, performance
// summaries, and forgotten-blank tracking.
type ReviewService interface {
	// ReviewTopic records one review outcome for every card in the topic
	// and advances each card's staged schedule. Returns the updated cards.
	ReviewTopic(ctx context.Context, owner uuid.UUID, topic string, success bool, performance float64) ([]*domain.Card, error)

	// ReviewCard records a legacy per-card review: remembered pushes the
	// next review three days out, forgotten one day.
	ReviewCard(ctx context.Context, owner, id uuid.UUID, remembered bool) (*domain.Card, error)

	// ReviewCardByHistory records a legacy review whose interval is chosen
	// by the length of the card's review history.
	ReviewCardByHistory(ctx context.Context, owner, id uuid.UUID, remembered bool) (*domain.Card, error)

	// DueLegacy returns cards whose legacy next-review date has arrived.
	DueLegacy(ctx context.Context, owner uuid.UUID, now time.Time) ([]*domain.Card, error)

	// DueToday returns cards whose staged next review has arrived,
	// overdue ones included, grouped by topic.
	DueToday(ctx context.Context, owner uuid.UUID, now time.Time) (map[string][]*domain.Card, error)

	// DueTomorrow returns cards due within the next local calendar day,
	// grouped by topic.
	DueTomorrow(ctx context.Context, owner uuid.UUID, now time.Time) (map[string][]*domain.Card, error)

	// Performance summarizes the legacy review history of the cards at the
	// exact five-segment path.
	Performance(ctx context.Context, owner uuid.UUID, path domain.Path) (*TopicPerformance, error)

	// GetBlanks returns the caller's forgotten-blank indices for a card.
	// Store failures degrade to an empty set; only a missing card is an
	// error.
	GetBlanks(ctx context.Context, owner, id uuid.UUID) ([]int, error)

	// UpdateBlanks replaces the caller's forgotten-blank set for a card,
	// incrementing the lifetime counter of each newly forgotten index.
	// Returns the updated record.
	UpdateBlanks(ctx context.Context, owner, id uuid.UUID, blanks []int) (*domain.BlankRecord, error)
}

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	cards     store.CardStore
	db        *sql.DB
	scheduler *srs.Scheduler
	logger    *slog.Logger
}

// NewReviewService creates a new ReviewService.
// It returns an error if any of the required dependencies are nil.
func NewReviewService(
	cards store.CardStore,
	db *sql.DB,
	logger *slog.Logger,
) (ReviewService, error) {
	if cards == nil {
		return nil, fmt.Errorf("card store cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("database cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &reviewServiceImpl{
		cards:     cards,
		db:        db,
		scheduler: srs.NewScheduler(),
		logger:    logger.With(slog.String("component", "review_service")),
	}, nil
}

var _ ReviewService = (*reviewServiceImpl)(nil)

// ReviewTopic implements ReviewService.ReviewTopic
// Every card in the topic moves together; the whole batch commits or none
// of it does.
func (s *reviewServiceImpl) ReviewTopic(
	ctx context.Context,
	owner uuid.UUID,
	topic string,
	success bool,
	performance float64,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cards.FindByTopic(ctx, owner, topic)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: %s", store.ErrTopicNotFound, topic)
	}

	now := time.Now().UTC()
	for _, card := range cards {
		card.Schedule = s.scheduler.Next(card.Schedule, success, performance, now)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.cards.WithTx(tx)
		for _, card := range cards {
			if err := txCards.UpdateSchedule(ctx, owner, card.ID, card.Schedule); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("topic review failed",
			slog.String("error", err.Error()),
			slog.String("topic", topic))
		return nil, NewServiceError("review_topic", "failed to update schedules", err)
	}

	log.Info("topic reviewed",
		slog.String("topic", topic),
		slog.Bool("success", success),
		slog.Int("card_count", len(cards)))
	return cards, nil
}

// ReviewCard implements ReviewService.ReviewCard
func (s *reviewServiceImpl) ReviewCard(
	ctx context.Context,
	owner, id uuid.UUID,
	remembered bool,
) (*domain.Card, error) {
	now := time.Now().UTC()
	return s.appendLegacyReview(ctx, owner, id, remembered, now, srs.LegacyNext(remembered, now))
}

// ReviewCardByHistory implements ReviewService.ReviewCardByHistory
func (s *reviewServiceImpl) ReviewCardByHistory(
	ctx context.Context,
	owner, id uuid.UUID,
	remembered bool,
) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	next := srs.HistoryNext(len(card.ReviewHistory), remembered, now)
	return s.recordLegacyReview(ctx, card, owner, remembered, now, next)
}

func (s *reviewServiceImpl) appendLegacyReview(
	ctx context.Context,
	owner, id uuid.UUID,
	remembered bool,
	now, next time.Time,
) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	return s.recordLegacyReview(ctx, card, owner, remembered, now, next)
}

func (s *reviewServiceImpl) recordLegacyReview(
	ctx context.Context,
	card *domain.Card,
	owner uuid.UUID,
	remembered bool,
	now, next time.Time,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rec := domain.ReviewRecord{Date: now, Remembered: remembered}
	if err := s.cards.AppendReview(ctx, owner, card.ID, rec, next); err != nil {
		return nil, NewServiceError("review_card", "failed to record review", err)
	}

	card.ReviewHistory = append(card.ReviewHistory, rec)
	card.NextReview = &next

	log.Debug("card reviewed",
		slog.String("card_id", card.ID.String()),
		slog.Bool("remembered", remembered),
		slog.Time("next_review", next))
	return card, nil
}

// DueLegacy implements ReviewService.DueLegacy
func (s *reviewServiceImpl) DueLegacy(
	ctx context.Context,
	owner uuid.UUID,
	now time.Time,
) ([]*domain.Card, error) {
	return s.cards.FindLegacyDue(ctx, owner, now)
}

// DueToday implements ReviewService.DueToday
func (s *reviewServiceImpl) DueToday(
	ctx context.Context,
	owner uuid.UUID,
	now time.Time,
) (map[string][]*domain.Card, error) {
	cards, err := s.cards.FindScheduledDue(ctx, owner, now)
	if err != nil {
		return nil, err
	}
	return groupByTopic(cards), nil
}

// DueTomorrow implements ReviewService.DueTomorrow
func (s *reviewServiceImpl) DueTomorrow(
	ctx context.Context,
	owner uuid.UUID,
	now time.Time,
) (map[string][]*domain.Card, error) {
	from, to := tomorrowWindow(now)
	cards, err := s.cards.FindScheduledBetween(ctx, owner, from, to)
	if err != nil {
		return nil, err
	}
	return groupByTopic(cards), nil
}

// Performance implements ReviewService.Performance
// Same-named topics under different subjects are distinct; only the cards
// at the exact path contribute. A path with cards but no recorded reviews
// yields zero totals with nil accuracy.
func (s *reviewServiceImpl) Performance(
	ctx context.Context,
	owner uuid.UUID,
	path domain.Path,
) (*TopicPerformance, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}

	cards, err := s.cards.FindByPath(ctx, owner, path)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: %s", store.ErrTopicNotFound, path.Topic)
	}

	perf := &TopicPerformance{Topic: path.Topic, CardCount: len(cards)}
	for _, card := range cards {
		for _, rec := range card.ReviewHistory {
			perf.Total++
			if rec.Remembered {
				perf.Correct++
			}
			if perf.LastReview == nil || rec.Date.After(*perf.LastReview) {
				d := rec.Date
				perf.LastReview = &d
			}
		}
	}

	if perf.Total > 0 {
		accuracy := float64(perf.Correct) / float64(perf.Total)
		perf.Accuracy = &accuracy
	}

	return perf, nil
}

// GetBlanks implements ReviewService.GetBlanks
func (s *reviewServiceImpl) GetBlanks(ctx context.Context, owner, id uuid.UUID) ([]int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cards.GetByID(ctx, owner, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		// Best-effort read: a store failure degrades to an empty set
		// rather than failing the client's study session.
		log.Warn("blanks read degraded to empty set",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return []int{}, nil
	}

	rec, ok := card.Blanks[owner.String()]
	if !ok || rec.Blanks == nil {
		return []int{}, nil
	}
	return rec.Blanks, nil
}

// UpdateBlanks implements ReviewService.UpdateBlanks
// The lifetime counter of an index increments only when the index enters
// the set; counters never decrement.
func (s *reviewServiceImpl) UpdateBlanks(
	ctx context.Context,
	owner, id uuid.UUID,
	blanks []int,
) (*domain.BlankRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, idx := range blanks {
		if idx < 0 {
			return nil, fmt.Errorf("%w: %d", domain.ErrInvalidKeywordIndex, idx)
		}
	}

	card, err := s.cards.GetByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	key := owner.String()
	rec, ok := card.Blanks[key]
	if !ok {
		rec = domain.BlankRecord{Stats: map[int]int{}}
	}
	if rec.Stats == nil {
		rec.Stats = map[int]int{}
	}

	previous := make(map[int]bool, len(rec.Blanks))
	for _, idx := range rec.Blanks {
		previous[idx] = true
	}
	for _, idx := range blanks {
		if !previous[idx] {
			rec.Stats[idx]++
			previous[idx] = true
		}
	}

	if blanks == nil {
		blanks = []int{}
	}
	rec.Blanks = blanks

	if card.Blanks == nil {
		card.Blanks = map[string]domain.BlankRecord{}
	}
	card.Blanks[key] = rec

	if err := s.cards.UpdateBlanks(ctx, owner, id, card.Blanks); err != nil {
		log.Error("failed to update blanks",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, NewServiceError("update_blanks", "failed to update card", err)
	}

	return &rec, nil
}

// dayStart returns local midnight of t's calendar day.
func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// tomorrowWindow returns the half-open window [start of tomorrow, start of
// the day after) in t's location.
func tomorrowWindow(t time.Time) (time.Time, time.Time) {
	start := dayStart(t).AddDate(0, 0, 1)
	return start, start.AddDate(0, 0, 1)
}

func groupByTopic(cards []*domain.Card) map[string][]*domain.Card {
	grouped := make(map[string][]*domain.Card, len(cards))
	for _, card := range cards {
		grouped[card.Path.Topic] = append(grouped[card.Path.Topic], card)
	}
	return grouped
}
