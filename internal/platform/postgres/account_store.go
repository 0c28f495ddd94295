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

// PostgresAccountStore implements the store.AccountStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAccountStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAccountStore creates a new PostgreSQL implementation of the AccountStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresAccountStore(db store.DBTX, logger *slog.Logger) *PostgresAccountStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "account_store")),
	}
}

var _ store.AccountStore = (*PostgresAccountStore)(nil)

const accountColumns = `id, email, daily_count, last_reset_date, lifetime_count, bonus_credits, created_at, updated_at`

// GetByID implements store.AccountStore.GetByID
func (s *PostgresAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.get(ctx, id, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`)
}

// GetForUpdate implements store.AccountStore.GetForUpdate
func (s *PostgresAccountStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.get(ctx, id, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`)
}

func (s *PostgresAccountStore) get(ctx context.Context, id uuid.UUID, query string) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var acct domain.Account
	var lastReset time.Time
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&acct.ID,
		&acct.Email,
		&acct.DailyCount,
		&lastReset,
		&acct.LifetimeCount,
		&acct.BonusCredits,
		&acct.CreatedAt,
		&acct.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("account not found", slog.String("account_id", id.String()))
			return nil, store.ErrAccountNotFound
		}
		log.Error("failed to get account",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()))
		return nil, MapError(err)
	}

	acct.LastResetDate = dateOf(lastReset)
	return &acct, nil
}

// ResetDaily implements store.AccountStore.ResetDaily
// The WHERE clause makes the write conditional, so concurrent resets on the
// same day collapse into one.
func (s *PostgresAccountStore) ResetDaily(ctx context.Context, id uuid.UUID, today civil.Date) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE accounts
		SET daily_count = 0, last_reset_date = $2, updated_at = NOW()
		WHERE id = $1 AND last_reset_date <> $2
	`
	result, err := s.db.ExecContext(ctx, query, id, dateArg(today))
	if err != nil {
		log.Error("failed to reset daily count",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()))
		return false, MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows > 0 {
		log.Info("daily count reset",
			slog.String("account_id", id.String()),
			slog.String("date", today.String()))
	}
	return rows > 0, nil
}

// IncrementUsage implements store.AccountStore.IncrementUsage
func (s *PostgresAccountStore) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE accounts
		SET daily_count = daily_count + 1, lifetime_count = lifetime_count + 1, updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to increment usage",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrAccountNotFound)
}

// AddBonusCredits implements store.AccountStore.AddBonusCredits
func (s *PostgresAccountStore) AddBonusCredits(ctx context.Context, id uuid.UUID, amount int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if amount <= 0 {
		return fmt.Errorf("%w: bonus amount must be positive, got %d", store.ErrInvalidEntity, amount)
	}

	query := `
		UPDATE accounts
		SET bonus_credits = bonus_credits + $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, amount)
	if err != nil {
		log.Error("failed to add bonus credits",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrAccountNotFound); err != nil {
		return err
	}

	log.Info("bonus credits added",
		slog.String("account_id", id.String()),
		slog.Int("amount", amount))
	return nil
}

// WithTx implements store.AccountStore.WithTx
func (s *PostgresAccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return &PostgresAccountStore{
		db:     tx,
		logger: s.logger,
	}
}
