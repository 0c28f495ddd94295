package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/platform/logger"
	"github.com/phrazzld/essaylab-api/internal/store"
)

// PostgresFlashcardStore implements store.FlashcardStore.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a new PostgreSQL flashcard store.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

const flashcardColumns = `f.id, f.user_id, f.essay_id, f.vocabulary_item_id, f.ease_factor,
	f.interval_days, f.repetition_count, f.next_review_date, f.created_at, f.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row rowScanner, withVocabulary bool) (*domain.Flashcard, error) {
	var card domain.Flashcard
	var next time.Time
	dest := []any{
		&card.ID, &card.UserID, &card.EssayID, &card.VocabularyItemID, &card.EaseFactor,
		&card.IntervalDays, &card.RepetitionCount, &next, &card.CreatedAt, &card.UpdatedAt,
	}
	if withVocabulary {
		dest = append(dest, &card.Word, &card.Definition)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	card.NextReviewDate = dateOf(next)
	return &card, nil
}

// GetByID implements store.FlashcardStore.GetByID
func (s *PostgresFlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	query := `SELECT ` + flashcardColumns + `, v.word, v.definition
		FROM flashcards f
		JOIN vocabulary_items v ON v.id = f.vocabulary_item_id
		WHERE f.id = $1`
	return s.getOne(ctx, id, query, true)
}

// GetForUpdate implements store.FlashcardStore.GetForUpdate
// Only the flashcard row is locked.
func (s *PostgresFlashcardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	query := `SELECT ` + flashcardColumns + ` FROM flashcards f WHERE f.id = $1 FOR UPDATE`
	return s.getOne(ctx, id, query, false)
}

func (s *PostgresFlashcardStore) getOne(
	ctx context.Context,
	id uuid.UUID,
	query string,
	withVocabulary bool,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := scanFlashcard(s.db.QueryRowContext(ctx, query, id), withVocabulary)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("flashcard not found", slog.String("flashcard_id", id.String()))
			return nil, store.ErrFlashcardNotFound
		}
		log.Error("failed to get flashcard",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return nil, MapError(err)
	}
	return card, nil
}

// UpdateSchedule implements store.FlashcardStore.UpdateSchedule
func (s *PostgresFlashcardStore) UpdateSchedule(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE flashcards
		SET ease_factor = $2, interval_days = $3, repetition_count = $4,
			next_review_date = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		card.ID, card.EaseFactor, card.IntervalDays, card.RepetitionCount,
		dateArg(card.NextReviewDate), card.UpdatedAt)
	if err != nil {
		log.Error("failed to update flashcard schedule",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", card.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrFlashcardNotFound)
}

// CreateMultiple implements store.FlashcardStore.CreateMultiple
// Cards whose vocabulary item already has a flashcard are skipped; the
// returned count covers only inserted rows.
func (s *PostgresFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO flashcards (id, user_id, essay_id, vocabulary_item_id, ease_factor,
			interval_days, repetition_count, next_review_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (vocabulary_item_id) DO NOTHING
	`
	created := 0
	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return created, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		result, err := s.db.ExecContext(ctx, query,
			card.ID, card.UserID, card.EssayID, card.VocabularyItemID, card.EaseFactor,
			card.IntervalDays, card.RepetitionCount, dateArg(card.NextReviewDate),
			card.CreatedAt, card.UpdatedAt)
		if err != nil {
			log.Error("failed to insert flashcard",
				slog.String("error", err.Error()),
				slog.String("vocabulary_item_id", card.VocabularyItemID.String()))
			return created, MapError(err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return created, fmt.Errorf("failed to get rows affected: %w", err)
		}
		created += int(rows)
	}

	log.Debug("flashcards created",
		slog.Int("requested", len(cards)),
		slog.Int("created", created))
	return created, nil
}

// ListByEssay implements store.FlashcardStore.ListByEssay
func (s *PostgresFlashcardStore) ListByEssay(
	ctx context.Context,
	userID, essayID uuid.UUID,
) ([]*domain.Flashcard, error) {
	query := `SELECT ` + flashcardColumns + `, v.word, v.definition
		FROM flashcards f
		JOIN vocabulary_items v ON v.id = f.vocabulary_item_id
		WHERE f.user_id = $1 AND f.essay_id = $2
		ORDER BY f.created_at, v.word`
	return s.list(ctx, query, userID, essayID)
}

// ListDue implements store.FlashcardStore.ListDue
// Cards are ordered by how overdue they are.
func (s *PostgresFlashcardStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	today civil.Date,
	limit int,
) ([]*domain.Flashcard, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", store.ErrInvalidEntity, limit)
	}
	query := `SELECT ` + flashcardColumns + `, v.word, v.definition
		FROM flashcards f
		JOIN vocabulary_items v ON v.id = f.vocabulary_item_id
		WHERE f.user_id = $1 AND f.next_review_date <= $2
		ORDER BY f.next_review_date, f.created_at
		LIMIT $3`
	return s.list(ctx, query, userID, dateArg(today), limit)
}

func (s *PostgresFlashcardStore) list(ctx context.Context, query string, args ...any) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list flashcards", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Flashcard, 0)
	for rows.Next() {
		card, err := scanFlashcard(rows, true)
		if err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}

// WithTx implements store.FlashcardStore.WithTx
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{
		db:     tx,
		logger: s.logger,
	}
}
