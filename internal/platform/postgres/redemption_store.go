package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/platform/logger"
	"github.com/phrazzld/essaylab-api/internal/store"
)

// PostgresRedemptionStore implements store.RedemptionStore.
type PostgresRedemptionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRedemptionStore creates a new PostgreSQL redemption store.
func NewPostgresRedemptionStore(db store.DBTX, logger *slog.Logger) *PostgresRedemptionStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRedemptionStore{
		db:     db,
		logger: logger.With(slog.String("component", "redemption_store")),
	}
}

var _ store.RedemptionStore = (*PostgresRedemptionStore)(nil)

// Claim implements store.RedemptionStore.Claim
// It returns false without error when the redeemer already holds a
// redemption for the same kind and code.
func (s *PostgresRedemptionStore) Claim(ctx context.Context, r *domain.Redemption) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := r.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO redemptions (id, kind, code, redeemer_id, bonus_granted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT redemptions_kind_code_redeemer_key DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query,
		r.ID, string(r.Kind), r.Code, r.RedeemerID, r.BonusGranted, r.CreatedAt)
	if err != nil {
		log.Error("failed to claim redemption",
			slog.String("error", err.Error()),
			slog.String("kind", string(r.Kind)),
			slog.String("redeemer_id", r.RedeemerID.String()))
		return false, MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		log.Debug("redemption already claimed",
			slog.String("kind", string(r.Kind)),
			slog.String("redeemer_id", r.RedeemerID.String()))
		return false, nil
	}
	return true, nil
}

// WithTx implements store.RedemptionStore.WithTx
func (s *PostgresRedemptionStore) WithTx(tx *sql.Tx) store.RedemptionStore {
	return &PostgresRedemptionStore{
		db:     tx,
		logger: s.logger,
	}
}
