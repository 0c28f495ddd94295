// Package quota enforces essay submission allowances. It combines the tier
// resolved from an account's email with the persisted usage counters and
// bonus credits, and performs the lazy daily reset.
package quota

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
	"github.com/phrazzld/essaylab-api/internal/domain/tier"
	"github.com/phrazzld/essaylab-api/internal/events"
	"github.com/phrazzld/essaylab-api/internal/platform/logger"
	"github.com/phrazzld/essaylab-api/internal/store"
)

// Service answers how much an account may still submit.
type Service interface {
	// GetStatus returns the account's current allowance. A pending daily reset
	// is persisted before any arithmetic.
	GetStatus(ctx context.Context, accountID uuid.UUID) (*Status, error)

	// RecordSubmission consumes one essay from the daily and total allowance.
	// It returns domain.ErrQuotaExceeded when either is exhausted.
	RecordSubmission(ctx context.Context, accountID uuid.UUID) (*Status, error)
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLocation sets the timezone whose midnight starts a new quota day.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) { l.loc = loc }
}

// WithEmitter publishes usage events after state changes commit.
func WithEmitter(e events.EventEmitter) Option {
	return func(l *Ledger) { l.emitter = e }
}

// Ledger implements Service on top of store.AccountStore.
type Ledger struct {
	db       *sql.DB
	accounts store.AccountStore
	resolver *tier.Resolver
	emitter  events.EventEmitter
	now      func() time.Time
	loc      *time.Location
	logger   *slog.Logger
}

var _ Service = (*Ledger)(nil)

// NewLedger creates a Ledger. db is used to open the transaction that
// RecordSubmission runs in.
func NewLedger(
	db *sql.DB,
	accounts store.AccountStore,
	resolver *tier.Resolver,
	logger *slog.Logger,
	opts ...Option,
) *Ledger {
	if db == nil {
		panic("db cannot be nil")
	}
	if accounts == nil {
		panic("accounts cannot be nil")
	}
	if resolver == nil {
		resolver = tier.NewDefaultResolver()
	}
	if logger == nil {
		logger = slog.Default()
	}

	l := &Ledger{
		db:       db,
		accounts: accounts,
		resolver: resolver,
		now:      time.Now,
		loc:      time.UTC,
		logger:   logger.With(slog.String("component", "quota_ledger")),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) today() civil.Date {
	return domain.DateIn(l.now(), l.loc)
}

// GetStatus implements Service.GetStatus.
func (l *Ledger) GetStatus(ctx context.Context, accountID uuid.UUID) (*Status, error) {
	log := logger.FromContextOrDefault(ctx, l.logger)

	acct, err := l.accounts.GetByID(ctx, accountID)
	if err != nil {
		log.Error("failed to load account for quota status",
			slog.String("error", err.Error()),
			slog.String("account_id", accountID.String()))
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	today := l.today()
	if acct.NeedsDailyReset(today) {
		acct, err = l.resetDaily(ctx, l.accounts, acct, today)
		if err != nil {
			return nil, err
		}
	}

	return Compute(acct, l.resolver.Resolve(acct.Email)), nil
}

// resetDaily persists the reset, then returns the account as it should be
// seen for the rest of the call. Losing the conditional update to another
// request means that request already reset the row, so it is re-read.
func (l *Ledger) resetDaily(
	ctx context.Context,
	accounts store.AccountStore,
	acct *domain.Account,
	today civil.Date,
) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, l.logger)

	applied, err := accounts.ResetDaily(ctx, acct.ID, today)
	if err != nil {
		log.Error("failed to persist daily reset",
			slog.String("error", err.Error()),
			slog.String("account_id", acct.ID.String()))
		return nil, fmt.Errorf("failed to reset daily count: %w", err)
	}

	if applied {
		acct.ApplyDailyReset(today)
		events.Emit(ctx, l.emitter, l.logger, events.TypeDailyReset, acct.ID, nil)
		return acct, nil
	}

	fresh, err := accounts.GetByID(ctx, acct.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload account after reset: %w", err)
	}
	return fresh, nil
}

// RecordSubmission implements Service.RecordSubmission.
func (l *Ledger) RecordSubmission(ctx context.Context, accountID uuid.UUID) (*Status, error) {
	log := logger.FromContextOrDefault(ctx, l.logger)

	var status *Status
	err := store.RunInTransaction(ctx, l.db, func(ctx context.Context, tx *sql.Tx) error {
		accounts := l.accounts.WithTx(tx)

		acct, err := accounts.GetForUpdate(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to lock account: %w", err)
		}

		today := l.today()
		if acct.NeedsDailyReset(today) {
			applied, err := accounts.ResetDaily(ctx, acct.ID, today)
			if err != nil {
				return fmt.Errorf("failed to reset daily count: %w", err)
			}
			// The row is locked, so a lost update here can only mean the
			// stored date already matched.
			acct.ApplyDailyReset(today)
			if applied {
				log.Debug("daily count reset during submission",
					slog.String("account_id", accountID.String()))
			}
		}

		plan := l.resolver.Resolve(acct.Email)
		if before := Compute(acct, plan); !before.CanSubmit() {
			// Rolling back also undoes a reset applied above. The next read
			// sees the stale date and resets again, so nothing is lost.
			status = before
			return domain.ErrQuotaExceeded
		}

		if err := accounts.IncrementUsage(ctx, acct.ID); err != nil {
			return fmt.Errorf("failed to record usage: %w", err)
		}
		acct.DailyCount++
		acct.LifetimeCount++
		status = Compute(acct, plan)
		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) {
			log.Info("submission rejected: quota exhausted",
				slog.String("account_id", accountID.String()),
				slog.Int("daily_remaining", status.Daily.Remaining))
			events.Emit(ctx, l.emitter, l.logger, events.TypeSubmissionRejected, accountID, nil)
			return status, err
		}
		log.Error("failed to record submission",
			slog.String("error", err.Error()),
			slog.String("account_id", accountID.String()))
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	events.Emit(ctx, l.emitter, l.logger, events.TypeSubmissionRecorded, accountID, nil)
	log.Info("submission recorded",
		slog.String("account_id", accountID.String()),
		slog.Int("daily_used", status.Daily.Used),
		slog.Int("total_used", status.Total.Used))
	return status, nil
}
