// Package guest limits anonymous visitors to a single trial essay per device
// fingerprint.
//
// Reads fail open: if the trial store cannot be reached the visitor is
// treated as new. Writes are best effort and never surface store failures.
package guest

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/events"
	"github.com/phrazzld/essaylab-api/internal/platform/logger"
	"github.com/phrazzld/essaylab-api/internal/store"
)

// Usage reports whether a fingerprint has consumed its trial.
type Usage struct {
	HasUsed bool       `json:"hasUsed"`
	EssayID string     `json:"essayId,omitempty"`
	UsedAt  *time.Time `json:"usedAt,omitempty"`
}

// Option configures a Gate.
type Option func(*Gate)

// WithDevBypass makes every fingerprint look unused. For local development only.
func WithDevBypass(enabled bool) Option {
	return func(g *Gate) { g.devBypass = enabled }
}

// WithEmitter publishes guest events.
func WithEmitter(e events.EventEmitter) Option {
	return func(g *Gate) { g.emitter = e }
}

// WithClock overrides the wall clock used to stamp trials.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// Gate is the guest trial dedup gate.
type Gate struct {
	trials    store.GuestTrialStore
	devBypass bool
	emitter   events.EventEmitter
	now       func() time.Time
	logger    *slog.Logger
}

// NewGate creates a Gate backed by trials.
func NewGate(trials store.GuestTrialStore, logger *slog.Logger, opts ...Option) *Gate {
	if trials == nil {
		panic("trials cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gate{
		trials: trials,
		now:    time.Now,
		logger: logger.With(slog.String("component", "guest_gate")),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.devBypass {
		g.logger.Warn("guest trial dev bypass is ENABLED: every visitor will be offered a trial")
	}
	return g
}

// CheckUsage reports whether fingerprint has already used its trial. Only a
// malformed fingerprint produces an error.
func (g *Gate) CheckUsage(ctx context.Context, fingerprint string) (*Usage, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	if err := domain.ValidateFingerprint(fingerprint); err != nil {
		return nil, err
	}
	if g.devBypass {
		return &Usage{HasUsed: false}, nil
	}

	trial, err := g.trials.Get(ctx, fingerprint)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Warn("guest trial lookup failed, allowing trial",
				slog.String("error", err.Error()))
		}
		return &Usage{HasUsed: false}, nil
	}

	usedAt := trial.UsedAt
	return &Usage{HasUsed: true, EssayID: trial.EssayID, UsedAt: &usedAt}, nil
}

// MarkUsed records that fingerprint used its trial on essayID. The last mark
// wins. Store failures are logged and swallowed.
func (g *Gate) MarkUsed(ctx context.Context, fingerprint, essayID string) error {
	log := logger.FromContextOrDefault(ctx, g.logger)

	trial, err := g.newTrial(fingerprint, essayID)
	if err != nil {
		return err
	}

	if err := g.trials.Upsert(ctx, trial); err != nil {
		log.Warn("failed to mark guest trial used",
			slog.String("error", err.Error()))
		return nil
	}
	return nil
}

// Claim atomically records the trial if fingerprint has none. It returns
// false and the existing trial when another essay already claimed it. An
// unreachable store lets the claim through.
func (g *Gate) Claim(ctx context.Context, fingerprint, essayID string) (bool, *domain.GuestTrial, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	trial, err := g.newTrial(fingerprint, essayID)
	if err != nil {
		return false, nil, err
	}
	if g.devBypass {
		return true, nil, nil
	}

	claimed, err := g.trials.InsertIfAbsent(ctx, trial)
	if err != nil {
		log.Warn("guest trial claim failed, allowing trial",
			slog.String("error", err.Error()))
		return true, nil, nil
	}
	if claimed {
		events.Emit(ctx, g.emitter, g.logger, events.TypeGuestClaimed, uuid.Nil, nil)
		return true, trial, nil
	}

	existing, err := g.trials.Get(ctx, fingerprint)
	if err != nil {
		log.Debug("claimed trial could not be re-read", slog.String("error", err.Error()))
		existing = nil
	}
	events.Emit(ctx, g.emitter, g.logger, events.TypeGuestBlocked, uuid.Nil, nil)
	return false, existing, nil
}

func (g *Gate) newTrial(fingerprint, essayID string) (*domain.GuestTrial, error) {
	if err := domain.ValidateFingerprint(fingerprint); err != nil {
		return nil, err
	}
	essayID = strings.TrimSpace(essayID)
	if essayID == "" {
		return nil, domain.NewValidationError("essayId", "is required", domain.ErrValidation)
	}
	return &domain.GuestTrial{
		Fingerprint: fingerprint,
		EssayID:     essayID,
		UsedAt:      g.now().UTC(),
	}, nil
}
