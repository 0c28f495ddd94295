package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/platform/logger"
	"github.com/phrazzld/essaylab-api/internal/store"
)

const inviteOwnerConstraint = "invite_codes_owner_id_key"

// PostgresInviteCodeStore implements store.InviteCodeStore.
type PostgresInviteCodeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresInviteCodeStore creates a new PostgreSQL invite code store.
func NewPostgresInviteCodeStore(db store.DBTX, logger *slog.Logger) *PostgresInviteCodeStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresInviteCodeStore{
		db:     db,
		logger: logger.With(slog.String("component", "invite_code_store")),
	}
}

var _ store.InviteCodeStore = (*PostgresInviteCodeStore)(nil)

// Create implements store.InviteCodeStore.Create
// A unique violation on the owner column means the account already has a
// code; any other unique violation is a collision on the code itself.
func (s *PostgresInviteCodeStore) Create(ctx context.Context, code *domain.InviteCode) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO invite_codes (code, owner_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := s.db.ExecContext(ctx, query, code.Code, code.OwnerID, code.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			if constraintName(err) == inviteOwnerConstraint {
				log.Debug("owner already has an invite code",
					slog.String("owner_id", code.OwnerID.String()))
				return store.ErrOwnerHasInviteCode
			}
			log.Debug("invite code collision")
			return store.ErrInviteCodeTaken
		}
		log.Error("failed to create invite code",
			slog.String("error", err.Error()),
			slog.String("owner_id", code.OwnerID.String()))
		return MapError(err)
	}

	log.Info("invite code created", slog.String("owner_id", code.OwnerID.String()))
	return nil
}

// GetByCode implements store.InviteCodeStore.GetByCode
func (s *PostgresInviteCodeStore) GetByCode(ctx context.Context, code string) (*domain.InviteCode, error) {
	return s.get(ctx, `SELECT code, owner_id, created_at FROM invite_codes WHERE code = $1`, code)
}

// GetByOwner implements store.InviteCodeStore.GetByOwner
func (s *PostgresInviteCodeStore) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.InviteCode, error) {
	return s.get(ctx, `SELECT code, owner_id, created_at FROM invite_codes WHERE owner_id = $1`, ownerID)
}

func (s *PostgresInviteCodeStore) get(ctx context.Context, query string, arg any) (*domain.InviteCode, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var ic domain.InviteCode
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&ic.Code, &ic.OwnerID, &ic.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrInviteCodeNotFound
		}
		log.Error("failed to get invite code", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return &ic, nil
}

// WithTx implements store.InviteCodeStore.WithTx
func (s *PostgresInviteCodeStore) WithTx(tx *sql.Tx) store.InviteCodeStore {
	return &PostgresInviteCodeStore{
		db:     tx,
		logger: s.logger,
	}
}
