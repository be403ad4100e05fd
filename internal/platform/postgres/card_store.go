// Package postgres implements the store interfaces on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rohitid33/sprint-rail/internal/domain"
	"github.com/rohitid33/sprint-rail/internal/platform/logger"
	"github.com/rohitid33/sprint-rail/internal/store"
)

// segmentColumns maps domain.Level to its column. Levels are a closed set,
// so interpolating these names into SQL is safe.
var segmentColumns = [...]string{"subject", "module", "chapter", "section", "topic"}

// cardColumns is the shared column list for card SELECTs, matching the
// scan order of scanCard.
const cardColumns = `id, subject, module, chapter, section, topic, content,
	keywords, card_order, review_history, next_review,
	schedule_stage, schedule_next_review, schedule_log,
	forgotten_blanks, created_by, created_at, updated_at`

// CardStore implements the store.CardStore interface using a PostgreSQL
// database as the storage backend.
type CardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCardStore creates a new PostgreSQL implementation of the CardStore
// interface. It accepts a database connection or transaction that should be
// initialized and managed by the caller. If logger is nil, a default logger
// will be used.
func NewCardStore(db store.DBTX, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure CardStore implements store.CardStore interface
var _ store.CardStore = (*CardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CardStore.Create
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	keywords, err := json.Marshal(card.Keywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}
	history, err := json.Marshal(historyOrEmpty(card.ReviewHistory))
	if err != nil {
		return fmt.Errorf("failed to marshal review history: %w", err)
	}
	schedLog, err := json.Marshal(logOrEmpty(card.Schedule.Log))
	if err != nil {
		return fmt.Errorf("failed to marshal schedule log: %w", err)
	}
	blanks, err := json.Marshal(blanksOrEmpty(card.Blanks))
	if err != nil {
		return fmt.Errorf("failed to marshal forgotten blanks: %w", err)
	}

	query := `
		INSERT INTO cards (
			id, subject, module, chapter, section, topic, content,
			keywords, card_order, review_history, next_review,
			schedule_stage, schedule_next_review, schedule_log,
			forgotten_blanks, created_by, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.Path.Subject,
		card.Path.Module,
		card.Path.Chapter,
		card.Path.Section,
		card.Path.Topic,
		card.Content,
		keywords,
		card.Order,
		history,
		nullableTime(card.NextReview),
		card.Schedule.Stage,
		nullableTime(card.Schedule.NextReview),
		schedLog,
		blanks,
		card.CreatedBy,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: card with ID %s already exists",
				store.ErrInvalidEntity, card.ID)
		}
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return store.NewStoreError("card", "create", "insert failed", err)
	}

	log.Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("subject", card.Path.Subject),
		slog.String("topic", card.Path.Topic))
	return nil
}

// CreateMultiple implements store.CardStore.CreateMultiple
// Cards are inserted one by one against the store's DBTX; run inside a
// transaction via RunInTransaction and WithTx when the batch must be
// all-or-nothing.
func (s *CardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	for _, card := range cards {
		if err := s.Create(ctx, card); err != nil {
			return err
		}
	}
	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *CardStore) GetByID(ctx context.Context, owner, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1 AND created_by = $2`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id, owner))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by ID",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, store.NewStoreError("card", "get", "query failed", err)
	}

	return card, nil
}

// Delete implements store.CardStore.Delete
func (s *CardStore) Delete(ctx context.Context, owner, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM cards WHERE id = $1 AND created_by = $2`,
		id, owner,
	)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return store.NewStoreError("card", "delete", "delete failed", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("card", "delete", "rows affected", err)
	}
	if affected == 0 {
		return store.ErrCardNotFound
	}

	log.Info("card deleted", slog.String("card_id", id.String()))
	return nil
}

// ListSegments implements store.CardStore.ListSegments
func (s *CardStore) ListSegments(
	ctx context.Context,
	owner uuid.UUID,
	level domain.Level,
	prefix domain.Path,
) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !level.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, level)
	}

	col := segmentColumns[level]
	query := `SELECT DISTINCT ` + col + ` FROM cards WHERE created_by = $1`
	args := []any{owner}

	// Constrain by every ancestor segment of the prefix.
	for l := domain.LevelSubject; l < level; l++ {
		args = append(args, prefix.Segment(l))
		query += fmt.Sprintf(" AND %s = $%d", segmentColumns[l], len(args))
	}

	// Absent segments never surface as children below the root.
	if level > domain.LevelSubject {
		query += " AND " + col + " <> ''"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list segments",
			slog.String("error", err.Error()),
			slog.String("level", level.String()))
		return nil, store.NewStoreError("card", "list_segments", "query failed", err)
	}
	defer closeRows(rows, log)

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, store.NewStoreError("card", "list_segments", "scan failed", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("card", "list_segments", "row iteration failed", err)
	}

	if values == nil {
		values = []string{}
	}
	return values, nil
}

// FindByPath implements store.CardStore.FindByPath
func (s *CardStore) FindByPath(
	ctx context.Context,
	owner uuid.UUID,
	path domain.Path,
) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + `
		FROM cards
		WHERE created_by = $1 AND subject = $2 AND module = $3
			AND chapter = $4 AND section = $5 AND topic = $6
		ORDER BY card_order, created_at`

	return s.queryCards(ctx, "find_by_path", query,
		owner, path.Subject, path.Module, path.Chapter, path.Section, path.Topic)
}

// FindByTopic implements store.CardStore.FindByTopic
// Topic-level review matches by topic name alone, regardless of the rest
// of the path.
func (s *CardStore) FindByTopic(
	ctx context.Context,
	owner uuid.UUID,
	topic string,
) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + `
		FROM cards
		WHERE created_by = $1 AND topic = $2
		ORDER BY card_order, created_at`

	return s.queryCards(ctx, "find_by_topic", query, owner, topic)
}

// Rename implements store.CardStore.Rename
// One UPDATE relabels the segment on every matching card, so the operation
// is atomic across the whole selection.
func (s *CardStore) Rename(
	ctx context.Context,
	owner uuid.UUID,
	level domain.Level,
	prefix domain.Path,
	newName string,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !level.Valid() {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, level)
	}
	if newName == "" {
		return 0, fmt.Errorf("%w: new name", domain.ErrEmptySegment)
	}

	query := `UPDATE cards SET ` + segmentColumns[level] + ` = $1, updated_at = $2 WHERE created_by = $3`
	args := []any{newName, time.Now().UTC(), owner}

	for l := domain.LevelSubject; l <= level; l++ {
		args = append(args, prefix.Segment(l))
		query += fmt.Sprintf(" AND %s = $%d", segmentColumns[l], len(args))
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to rename segment",
			slog.String("error", err.Error()),
			slog.String("level", level.String()),
			slog.String("new_name", newName))
		return 0, store.NewStoreError("card", "rename", "update failed", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError("card", "rename", "rows affected", err)
	}

	log.Info("segment renamed",
		slog.String("level", level.String()),
		slog.String("old_name", prefix.Segment(level)),
		slog.String("new_name", newName),
		slog.Int64("affected", affected))
	return affected, nil
}

// DeleteTree implements store.CardStore.DeleteTree
func (s *CardStore) DeleteTree(
	ctx context.Context,
	owner uuid.UUID,
	level domain.Level,
	prefix domain.Path,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !level.Valid() {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, level)
	}

	query := `DELETE FROM cards WHERE created_by = $1`
	args := []any{owner}

	for l := domain.LevelSubject; l <= level; l++ {
		args = append(args, prefix.Segment(l))
		query += fmt.Sprintf(" AND %s = $%d", segmentColumns[l], len(args))
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete tree",
			slog.String("error", err.Error()),
			slog.String("level", level.String()))
		return 0, store.NewStoreError("card", "delete_tree", "delete failed", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError("card", "delete_tree", "rows affected", err)
	}

	log.Info("tree deleted",
		slog.String("level", level.String()),
		slog.String("value", prefix.Segment(level)),
		slog.Int64("deleted", deleted))
	return deleted, nil
}

// UpdateContent implements store.CardStore.UpdateContent
func (s *CardStore) UpdateContent(
	ctx context.Context,
	owner, id uuid.UUID,
	content string,
	keywords []int,
) error {
	if content == "" {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrEmptyContent)
	}

	kw, err := json.Marshal(keywordsOrEmpty(keywords))
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}

	return s.execOnCard(ctx, "update_content", owner, id,
		`UPDATE cards SET content = $1, keywords = $2, updated_at = $3
		 WHERE id = $4 AND created_by = $5`,
		content, kw, time.Now().UTC(), id, owner)
}

// UpdateKeywords implements store.CardStore.UpdateKeywords
func (s *CardStore) UpdateKeywords(
	ctx context.Context,
	owner, id uuid.UUID,
	keywords []int,
) error {
	kw, err := json.Marshal(keywordsOrEmpty(keywords))
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}

	return s.execOnCard(ctx, "update_keywords", owner, id,
		`UPDATE cards SET keywords = $1, updated_at = $2
		 WHERE id = $3 AND created_by = $4`,
		kw, time.Now().UTC(), id, owner)
}

// UpdateOrder implements store.CardStore.UpdateOrder
// The path constraint keeps a reorder from reaching cards that moved to a
// different topic after the client fetched its list.
func (s *CardStore) UpdateOrder(
	ctx context.Context,
	owner, id uuid.UUID,
	path domain.Path,
	order int,
) error {
	return s.execOnCard(ctx, "update_order", owner, id,
		`UPDATE cards SET card_order = $1, updated_at = $2
		 WHERE id = $3 AND created_by = $4 AND subject = $5 AND module = $6
			AND chapter = $7 AND section = $8 AND topic = $9`,
		order, time.Now().UTC(), id, owner,
		path.Subject, path.Module, path.Chapter, path.Section, path.Topic)
}

// AppendReview implements store.CardStore.AppendReview
// The jsonb || operator appends the record to the history array in place,
// keeping the log append-only without a read-modify-write cycle.
func (s *CardStore) AppendReview(
	ctx context.Context,
	owner, id uuid.UUID,
	rec domain.ReviewRecord,
	next time.Time,
) error {
	entry, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal review record: %w", err)
	}

	return s.execOnCard(ctx, "append_review", owner, id,
		`UPDATE cards
		 SET review_history = review_history || $1::jsonb,
			next_review = $2, updated_at = $3
		 WHERE id = $4 AND created_by = $5`,
		entry, next, time.Now().UTC(), id, owner)
}

// UpdateSchedule implements store.CardStore.UpdateSchedule
func (s *CardStore) UpdateSchedule(
	ctx context.Context,
	owner, id uuid.UUID,
	sched domain.ReviewSchedule,
) error {
	schedLog, err := json.Marshal(logOrEmpty(sched.Log))
	if err != nil {
		return fmt.Errorf("failed to marshal schedule log: %w", err)
	}

	return s.execOnCard(ctx, "update_schedule", owner, id,
		`UPDATE cards
		 SET schedule_stage = $1, schedule_next_review = $2,
			schedule_log = $3, updated_at = $4
		 WHERE id = $5 AND created_by = $6`,
		sched.Stage, nullableTime(sched.NextReview), schedLog,
		time.Now().UTC(), id, owner)
}

// UpdateBlanks implements store.CardStore.UpdateBlanks
func (s *CardStore) UpdateBlanks(
	ctx context.Context,
	owner, id uuid.UUID,
	blanks map[string]domain.BlankRecord,
) error {
	payload, err := json.Marshal(blanksOrEmpty(blanks))
	if err != nil {
		return fmt.Errorf("failed to marshal forgotten blanks: %w", err)
	}

	return s.execOnCard(ctx, "update_blanks", owner, id,
		`UPDATE cards SET forgotten_blanks = $1, updated_at = $2
		 WHERE id = $3 AND created_by = $4`,
		payload, time.Now().UTC(), id, owner)
}

// FindLegacyDue implements store.CardStore.FindLegacyDue
func (s *CardStore) FindLegacyDue(
	ctx context.Context,
	owner uuid.UUID,
	now time.Time,
) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + `
		FROM cards
		WHERE created_by = $1 AND next_review IS NOT NULL AND next_review <= $2`

	return s.queryCards(ctx, "find_legacy_due", query, owner, now)
}

// FindScheduledDue implements store.CardStore.FindScheduledDue
func (s *CardStore) FindScheduledDue(
	ctx context.Context,
	owner uuid.UUID,
	until time.Time,
) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + `
		FROM cards
		WHERE created_by = $1 AND schedule_next_review IS NOT NULL
			AND schedule_next_review <= $2`

	return s.queryCards(ctx, "find_scheduled_due", query, owner, until)
}

// FindScheduledBetween implements store.CardStore.FindScheduledBetween
func (s *CardStore) FindScheduledBetween(
	ctx context.Context,
	owner uuid.UUID,
	from, to time.Time,
) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + `
		FROM cards
		WHERE created_by = $1 AND schedule_next_review IS NOT NULL
			AND schedule_next_review >= $2 AND schedule_next_review < $3`

	return s.queryCards(ctx, "find_scheduled_between", query, owner, from, to)
}

// execOnCard runs a single-card UPDATE and maps zero affected rows to
// ErrCardNotFound.
func (s *CardStore) execOnCard(
	ctx context.Context,
	operation string,
	owner, id uuid.UUID,
	query string,
	args ...any,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		log.Error("card update failed",
			slog.String("error", err.Error()),
			slog.String("operation", operation),
			slog.String("card_id", id.String()))
		return store.NewStoreError("card", operation, "update failed", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("card", operation, "rows affected", err)
	}
	if affected == 0 {
		log.Debug("card not found for update",
			slog.String("operation", operation),
			slog.String("card_id", id.String()),
			slog.String("owner", owner.String()))
		return store.ErrCardNotFound
	}

	return nil
}

// queryCards runs a multi-row card SELECT and scans the results.
func (s *CardStore) queryCards(
	ctx context.Context,
	operation string,
	query string,
	args ...any,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("card query failed",
			slog.String("error", err.Error()),
			slog.String("operation", operation))
		return nil, store.NewStoreError("card", operation, "query failed", err)
	}
	defer closeRows(rows, log)

	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, store.NewStoreError("card", operation, "scan failed", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("card", operation, "row iteration failed", err)
	}

	if cards == nil {
		cards = []*domain.Card{}
	}
	return cards, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanCard reads one card row in cardColumns order, decoding the JSONB
// columns into their domain shapes.
func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card       domain.Card
		keywords   []byte
		history    []byte
		schedLog   []byte
		blanks     []byte
		nextReview sql.NullTime
		schedNext  sql.NullTime
	)

	err := row.Scan(
		&card.ID,
		&card.Path.Subject,
		&card.Path.Module,
		&card.Path.Chapter,
		&card.Path.Section,
		&card.Path.Topic,
		&card.Content,
		&keywords,
		&card.Order,
		&history,
		&nextReview,
		&card.Schedule.Stage,
		&schedNext,
		&schedLog,
		&blanks,
		&card.CreatedBy,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(keywords, &card.Keywords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keywords: %w", err)
	}
	if err := json.Unmarshal(history, &card.ReviewHistory); err != nil {
		return nil, fmt.Errorf("failed to unmarshal review history: %w", err)
	}
	if err := json.Unmarshal(schedLog, &card.Schedule.Log); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule log: %w", err)
	}
	if err := json.Unmarshal(blanks, &card.Blanks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal forgotten blanks: %w", err)
	}

	if nextReview.Valid {
		t := nextReview.Time
		card.NextReview = &t
	}
	if schedNext.Valid {
		t := schedNext.Time
		card.Schedule.NextReview = &t
	}

	return &card, nil
}

func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func keywordsOrEmpty(keywords []int) []int {
	if keywords == nil {
		return []int{}
	}
	return keywords
}

func historyOrEmpty(history []domain.ReviewRecord) []domain.ReviewRecord {
	if history == nil {
		return []domain.ReviewRecord{}
	}
	return history
}

func logOrEmpty(entries []domain.ScheduleEntry) []domain.ScheduleEntry {
	if entries == nil {
		return []domain.ScheduleEntry{}
	}
	return entries
}

func blanksOrEmpty(blanks map[string]domain.BlankRecord) map[string]domain.BlankRecord {
	if blanks == nil {
		return map[string]domain.BlankRecord{}
	}
	return blanks
}
