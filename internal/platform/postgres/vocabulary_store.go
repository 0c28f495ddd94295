package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/platform/logger"
	"github.com/phrazzld/essaylab-api/internal/store"
)

// PostgresVocabularyStore implements store.VocabularyStore.
type PostgresVocabularyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresVocabularyStore creates a new PostgreSQL vocabulary store.
func NewPostgresVocabularyStore(db store.DBTX, logger *slog.Logger) *PostgresVocabularyStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresVocabularyStore{
		db:     db,
		logger: logger.With(slog.String("component", "vocabulary_store")),
	}
}

var _ store.VocabularyStore = (*PostgresVocabularyStore)(nil)

// CreateMultiple implements store.VocabularyStore.CreateMultiple
// Callers wanting all-or-nothing semantics run it inside a transaction.
func (s *PostgresVocabularyStore) CreateMultiple(ctx context.Context, items []*domain.VocabularyItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO vocabulary_items (id, essay_id, user_id, word, definition, example, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		_, err := s.db.ExecContext(ctx, query,
			item.ID, item.EssayID, item.UserID, item.Word, item.Definition, item.Example, item.CreatedAt)
		if err != nil {
			log.Error("failed to insert vocabulary item",
				slog.String("error", err.Error()),
				slog.String("essay_id", item.EssayID.String()))
			return MapError(err)
		}
	}

	log.Debug("vocabulary items created", slog.Int("count", len(items)))
	return nil
}

// ListByEssay implements store.VocabularyStore.ListByEssay
func (s *PostgresVocabularyStore) ListByEssay(
	ctx context.Context,
	userID, essayID uuid.UUID,
) ([]*domain.VocabularyItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, essay_id, user_id, word, definition, example, created_at
		FROM vocabulary_items
		WHERE user_id = $1 AND essay_id = $2
		ORDER BY created_at, word
	`
	rows, err := s.db.QueryContext(ctx, query, userID, essayID)
	if err != nil {
		log.Error("failed to list vocabulary items", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]*domain.VocabularyItem, 0)
	for rows.Next() {
		var item domain.VocabularyItem
		if err := rows.Scan(
			&item.ID, &item.EssayID, &item.UserID,
			&item.Word, &item.Definition, &item.Example, &item.CreatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return items, nil
}

// WithTx implements store.VocabularyStore.WithTx
func (s *PostgresVocabularyStore) WithTx(tx *sql.Tx) store.VocabularyStore {
	return &PostgresVocabularyStore{
		db:     tx,
		logger: s.logger,
	}
}
