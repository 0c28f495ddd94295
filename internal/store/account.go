package store

import (
	"context"
	"database/sql"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/domain"
)

// AccountStore defines the persistence operations on account usage counters.
// Account rows are created by the auth backend; this store never inserts or
// deletes them.
type AccountStore interface {
	// GetByID retrieves an account.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// GetForUpdate retrieves an account and locks its row until the
	// surrounding transaction ends. Only meaningful on a store bound with WithTx.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// ResetDaily zeroes the daily counter if it belongs to a day other than
	// today. It reports whether a row was changed; a second call on the same
	// day is a no-op.
	ResetDaily(ctx context.Context, id uuid.UUID, today civil.Date) (bool, error)

	// IncrementUsage adds one submission to both the daily and lifetime counters.
	IncrementUsage(ctx context.Context, id uuid.UUID) error

	// AddBonusCredits increases the bonus balance by amount, which must be positive.
	AddBonusCredits(ctx context.Context, id uuid.UUID, amount int) error

	// WithTx returns a new store instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AccountStore
}
