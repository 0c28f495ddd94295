package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/domain"
)

// InviteCodeStore persists the one-per-account invite codes.
type InviteCodeStore interface {
	// Create saves a new code. Returns ErrInviteCodeTaken when the code is
	// already in use and ErrOwnerHasInviteCode when the owner already has one.
	Create(ctx context.Context, code *domain.InviteCode) error

	// GetByCode looks up a normalized code.
	// Returns ErrInviteCodeNotFound if no account owns it.
	GetByCode(ctx context.Context, code string) (*domain.InviteCode, error)

	// GetByOwner returns the owner's code.
	// Returns ErrInviteCodeNotFound if the owner has none yet.
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.InviteCode, error)

	// WithTx returns a new store instance that uses the provided transaction.
	WithTx(tx *sql.Tx) InviteCodeStore
}

// RedemptionStore records which account redeemed which code.
type RedemptionStore interface {
	// Claim inserts the redemption unless the (kind, code, redeemer) triple
	// already exists. It reports whether this call inserted the row.
	Claim(ctx context.Context, redemption *domain.Redemption) (bool, error)

	// WithTx returns a new store instance that uses the provided transaction.
	WithTx(tx *sql.Tx) RedemptionStore
}
