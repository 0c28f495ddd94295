package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/platform/logger"
	"github.com/phrazzld/essaylab-api/internal/store"
)

// PostgresGuestTrialStore implements store.GuestTrialStore.
type PostgresGuestTrialStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGuestTrialStore creates a new PostgreSQL guest trial store.
func NewPostgresGuestTrialStore(db store.DBTX, logger *slog.Logger) *PostgresGuestTrialStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGuestTrialStore{
		db:     db,
		logger: logger.With(slog.String("component", "guest_trial_store")),
	}
}

var _ store.GuestTrialStore = (*PostgresGuestTrialStore)(nil)

// Get implements store.GuestTrialStore.Get
func (s *PostgresGuestTrialStore) Get(ctx context.Context, fingerprint string) (*domain.GuestTrial, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT fingerprint, essay_id, used_at FROM guest_trials WHERE fingerprint = $1`

	var trial domain.GuestTrial
	err := s.db.QueryRowContext(ctx, query, fingerprint).Scan(&trial.Fingerprint, &trial.EssayID, &trial.UsedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrGuestTrialNotFound
		}
		log.Warn("failed to read guest trial", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return &trial, nil
}

// Upsert implements store.GuestTrialStore.Upsert
func (s *PostgresGuestTrialStore) Upsert(ctx context.Context, trial *domain.GuestTrial) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO guest_trials (fingerprint, essay_id, used_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (fingerprint) DO UPDATE
		SET essay_id = EXCLUDED.essay_id, used_at = EXCLUDED.used_at
	`
	if _, err := s.db.ExecContext(ctx, query, trial.Fingerprint, trial.EssayID, trial.UsedAt); err != nil {
		log.Warn("failed to upsert guest trial", slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// InsertIfAbsent implements store.GuestTrialStore.InsertIfAbsent
func (s *PostgresGuestTrialStore) InsertIfAbsent(ctx context.Context, trial *domain.GuestTrial) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO guest_trials (fingerprint, essay_id, used_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (fingerprint) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query, trial.Fingerprint, trial.EssayID, trial.UsedAt)
	if err != nil {
		log.Warn("failed to claim guest trial", slog.String("error", err.Error()))
		return false, MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows == 1, nil
}
