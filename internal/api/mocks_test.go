package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rohitid33/sprint-rail/internal/api/shared"
	"github.com/rohitid33/sprint-rail/internal/domain"
	"github.com/rohitid33/sprint-rail/internal/service"
)

// testCaller is the fixed identity used by handler tests.
var testCaller = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// withIdentity attaches caller and trace IDs the way the middleware chain
// would before a request reaches a handler.
func withIdentity(r *http.Request) *http.Request {
	ctx := shared.SetCallerID(r.Context(), testCaller)
	ctx = shared.SetTraceID(ctx)
	return r.WithContext(ctx)
}

// stubContentService implements service.ContentService with canned results.
type stubContentService struct {
	segments []string
	cards    []*domain.Card
	card     *domain.Card
	affected int64
	deleted  int64
	err      error

	// captured arguments
	gotLevel   domain.Level
	gotPrefix  domain.Path
	gotPath    domain.Path
	gotNewName string
	gotContent string
	gotRaw     string
	gotIDs     []uuid.UUID
}

var _ service.ContentService = (*stubContentService)(nil)

func (s *stubContentService) ListSegments(ctx context.Context, owner uuid.UUID, level domain.Level, prefix domain.Path) ([]string, error) {
	s.gotLevel, s.gotPrefix = level, prefix
	return s.segments, s.err
}

func (s *stubContentService) ListCards(ctx context.Context, owner uuid.UUID, path domain.Path) ([]*domain.Card, error) {
	s.gotPath = path
	return s.cards, s.err
}

func (s *stubContentService) GetCard(ctx context.Context, owner, id uuid.UUID) (*domain.Card, error) {
	return s.card, s.err
}

func (s *stubContentService) AddCard(ctx context.Context, owner uuid.UUID, path domain.Path, content string) (*domain.Card, error) {
	s.gotPath, s.gotContent = path, content
	return s.card, s.err
}

func (s *stubContentService) AddStructuralCard(ctx context.Context, owner uuid.UUID, path domain.Path, content string) (*domain.Card, error) {
	s.gotPath, s.gotContent = path, content
	return s.card, s.err
}

func (s *stubContentService) IngestText(ctx context.Context, owner uuid.UUID, path domain.Path, raw string) ([]*domain.Card, error) {
	s.gotPath, s.gotRaw = path, raw
	return s.cards, s.err
}

func (s *stubContentService) RenameSegment(ctx context.Context, owner uuid.UUID, level domain.Level, prefix domain.Path, newName string) (int64, error) {
	s.gotLevel, s.gotPrefix, s.gotNewName = level, prefix, newName
	return s.affected, s.err
}

func (s *stubContentService) DeleteTree(ctx context.Context, owner uuid.UUID, level domain.Level, prefix domain.Path) (int64, error) {
	s.gotLevel, s.gotPrefix = level, prefix
	return s.deleted, s.err
}

func (s *stubContentService) DeleteCard(ctx context.Context, owner, id uuid.UUID) error {
	return s.err
}

func (s *stubContentService) UpdateContent(ctx context.Context, owner, id uuid.UUID, content string) (*domain.Card, error) {
	s.gotContent = content
	return s.card, s.err
}

func (s *stubContentService) UpdateKeywords(ctx context.Context, owner, id uuid.UUID, keywords []int) error {
	return s.err
}

func (s *stubContentService) Reorder(ctx context.Context, owner uuid.UUID, path domain.Path, ids []uuid.UUID) error {
	s.gotPath, s.gotIDs = path, ids
	return s.err
}

// stubReviewService implements service.ReviewService with canned results.
type stubReviewService struct {
	cards   []*domain.Card
	card    *domain.Card
	grouped map[string][]*domain.Card
	perf    *service.TopicPerformance
	blanks  []int
	rec     *domain.BlankRecord
	err     error

	gotTopic       string
	gotPath        domain.Path
	gotSuccess     bool
	gotPerformance float64
	gotRemembered  bool
	gotBlanks      []int
}

var _ service.ReviewService = (*stubReviewService)(nil)

func (s *stubReviewService) ReviewTopic(ctx context.Context, owner uuid.UUID, topic string, success bool, performance float64) ([]*domain.Card, error) {
	s.gotTopic, s.gotSuccess, s.gotPerformance = topic, success, performance
	return s.cards, s.err
}

func (s *stubReviewService) ReviewCard(ctx context.Context, owner, id uuid.UUID, remembered bool) (*domain.Card, error) {
	s.gotRemembered = remembered
	return s.card, s.err
}

func (s *stubReviewService) ReviewCardByHistory(ctx context.Context, owner, id uuid.UUID, remembered bool) (*domain.Card, error) {
	s.gotRemembered = remembered
	return s.card, s.err
}

func (s *stubReviewService) DueLegacy(ctx context.Context, owner uuid.UUID, now time.Time) ([]*domain.Card, error) {
	return s.cards, s.err
}

func (s *stubReviewService) DueToday(ctx context.Context, owner uuid.UUID, now time.Time) (map[string][]*domain.Card, error) {
	return s.grouped, s.err
}

func (s *stubReviewService) DueTomorrow(ctx context.Context, owner uuid.UUID, now time.Time) (map[string][]*domain.Card, error) {
	return s.grouped, s.err
}

func (s *stubReviewService) Performance(ctx context.Context, owner uuid.UUID, path domain.Path) (*service.TopicPerformance, error) {
	s.gotPath = path
	return s.perf, s.err
}

func (s *stubReviewService) GetBlanks(ctx context.Context, owner, id uuid.UUID) ([]int, error) {
	return s.blanks, s.err
}

func (s *stubReviewService) UpdateBlanks(ctx context.Context, owner, id uuid.UUID, blanks []int) (*domain.BlankRecord, error) {
	s.gotBlanks = blanks
	return s.rec, s.err
}

// testCard builds a minimal valid card for handler tests.
func testCard(topic, content string) *domain.Card {
	return &domain.Card{
		ID: uuid.New(),
		Path: domain.Path{
			Subject: "biology",
			Module:  "cells",
			Chapter: "membranes",
			Section: "transport",
			Topic:   topic,
		},
		Content:   content,
		Keywords:  []int{},
		CreatedBy: testCaller,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}
