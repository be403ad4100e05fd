package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rohitid33/sprint-rail/internal/domain"
	"github.com/rohitid33/sprint-rail/internal/store"
)

// fakeCardStore is an in-memory store.CardStore for service unit tests.
// It mirrors the owner-scoping and not-found behavior of the Postgres
// implementation.
type fakeCardStore struct {
	mu    sync.Mutex
	cards map[uuid.UUID]*domain.Card

	// failWith, when set, makes every method return this error.
	failWith error
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{cards: make(map[uuid.UUID]*domain.Card)}
}

var _ store.CardStore = (*fakeCardStore)(nil)

func (f *fakeCardStore) put(card *domain.Card) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *card
	f.cards[card.ID] = &clone
}

func (f *fakeCardStore) get(owner, id uuid.UUID) (*domain.Card, bool) {
	card, ok := f.cards[id]
	if !ok || card.CreatedBy != owner {
		return nil, false
	}
	clone := *card
	return &clone, true
}

func (f *fakeCardStore) Create(ctx context.Context, card *domain.Card) error {
	if f.failWith != nil {
		return f.failWith
	}
	if err := card.Validate(); err != nil {
		return err
	}
	f.put(card)
	return nil
}

func (f *fakeCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	for _, card := range cards {
		if err := f.Create(ctx, card); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeCardStore) GetByID(ctx context.Context, owner, id uuid.UUID) (*domain.Card, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.get(owner, id)
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return card, nil
}

func (f *fakeCardStore) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.get(owner, id); !ok {
		return store.ErrCardNotFound
	}
	delete(f.cards, id)
	return nil
}

func (f *fakeCardStore) ListSegments(
	ctx context.Context,
	owner uuid.UUID,
	level domain.Level,
	prefix domain.Path,
) ([]string, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	for _, card := range f.cards {
		if card.CreatedBy != owner {
			continue
		}
		match := true
		for l := domain.LevelSubject; l < level; l++ {
			if card.Path.Segment(l) != prefix.Segment(l) {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		v := card.Path.Segment(level)
		if v == "" && level > domain.LevelSubject {
			continue
		}
		seen[v] = true
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

func (f *fakeCardStore) FindByPath(
	ctx context.Context,
	owner uuid.UUID,
	path domain.Path,
) ([]*domain.Card, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Card
	for _, card := range f.cards {
		if card.CreatedBy == owner && card.Path == path {
			clone := *card
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *fakeCardStore) FindByTopic(
	ctx context.Context,
	owner uuid.UUID,
	topic string,
) ([]*domain.Card, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Card{}
	for _, card := range f.cards {
		if card.CreatedBy == owner && card.Path.Topic == topic {
			clone := *card
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *fakeCardStore) Rename(
	ctx context.Context,
	owner uuid.UUID,
	level domain.Level,
	prefix domain.Path,
	newName string,
) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var affected int64
	for _, card := range f.cards {
		if card.CreatedBy != owner {
			continue
		}
		if !prefix.MatchesThrough(card.Path, level) {
			continue
		}
		card.Path = card.Path.WithSegment(level, newName)
		affected++
	}
	return affected, nil
}

func (f *fakeCardStore) DeleteTree(
	ctx context.Context,
	owner uuid.UUID,
	level domain.Level,
	prefix domain.Path,
) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, card := range f.cards {
		if card.CreatedBy != owner {
			continue
		}
		if !prefix.MatchesThrough(card.Path, level) {
			continue
		}
		delete(f.cards, id)
		deleted++
	}
	return deleted, nil
}

func (f *fakeCardStore) UpdateContent(
	ctx context.Context,
	owner, id uuid.UUID,
	content string,
	keywords []int,
) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.cards[id]
	if !ok || card.CreatedBy != owner {
		return store.ErrCardNotFound
	}
	card.Content = content
	card.Keywords = keywords
	return nil
}

func (f *fakeCardStore) UpdateKeywords(ctx context.Context, owner, id uuid.UUID, keywords []int) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.cards[id]
	if !ok || card.CreatedBy != owner {
		return store.ErrCardNotFound
	}
	card.Keywords = keywords
	return nil
}

func (f *fakeCardStore) UpdateOrder(
	ctx context.Context,
	owner, id uuid.UUID,
	path domain.Path,
	order int,
) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.cards[id]
	if !ok || card.CreatedBy != owner || card.Path != path {
		return store.ErrCardNotFound
	}
	card.Order = order
	return nil
}

func (f *fakeCardStore) AppendReview(
	ctx context.Context,
	owner, id uuid.UUID,
	rec domain.ReviewRecord,
	next time.Time,
) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.cards[id]
	if !ok || card.CreatedBy != owner {
		return store.ErrCardNotFound
	}
	card.ReviewHistory = append(card.ReviewHistory, rec)
	n := next
	card.NextReview = &n
	return nil
}

func (f *fakeCardStore) UpdateSchedule(
	ctx context.Context,
	owner, id uuid.UUID,
	sched domain.ReviewSchedule,
) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.cards[id]
	if !ok || card.CreatedBy != owner {
		return store.ErrCardNotFound
	}
	card.Schedule = sched
	return nil
}

func (f *fakeCardStore) FindLegacyDue(
	ctx context.Context,
	owner uuid.UUID,
	now time.Time,
) ([]*domain.Card, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Card{}
	for _, card := range f.cards {
		if card.CreatedBy == owner && card.NextReview != nil && !card.NextReview.After(now) {
			clone := *card
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeCardStore) FindScheduledDue(
	ctx context.Context,
	owner uuid.UUID,
	until time.Time,
) ([]*domain.Card, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Card{}
	for _, card := range f.cards {
		next := card.Schedule.NextReview
		if card.CreatedBy == owner && next != nil && !next.After(until) {
			clone := *card
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeCardStore) FindScheduledBetween(
	ctx context.Context,
	owner uuid.UUID,
	from, to time.Time,
) ([]*domain.Card, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Card{}
	for _, card := range f.cards {
		next := card.Schedule.NextReview
		if card.CreatedBy == owner && next != nil && !next.Before(from) && next.Before(to) {
			clone := *card
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeCardStore) UpdateBlanks(
	ctx context.Context,
	owner, id uuid.UUID,
	blanks map[string]domain.BlankRecord,
) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.cards[id]
	if !ok || card.CreatedBy != owner {
		return store.ErrCardNotFound
	}
	card.Blanks = blanks
	return nil
}

func (f *fakeCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return f
}
