package store

import (
	"context"

	"github.com/phrazzld/essaylab-api/internal/domain"
)

// GuestTrialStore persists anonymous trial usage keyed by device fingerprint.
// Implementations exist for Postgres and Redis.
type GuestTrialStore interface {
	// Get returns the recorded trial for fingerprint.
	// Returns ErrGuestTrialNotFound if none exists and ErrUnavailable if the
	// backend cannot be reached.
	Get(ctx context.Context, fingerprint string) (*domain.GuestTrial, error)

	// Upsert records the trial, overwriting any previous record (last write wins).
	Upsert(ctx context.Context, trial *domain.GuestTrial) error

	// InsertIfAbsent records the trial only if the fingerprint has none.
	// It reports whether this call created the record.
	InsertIfAbsent(ctx context.Context, trial *domain.GuestTrial) (bool, error)
}
