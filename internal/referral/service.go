// Package referral grants bonus essay credits through invite and promo codes.
//
// Every redemption is recorded with a unique (kind, code, redeemer) key, so a
// repeated redemption is rejected with domain.ErrAlreadyRedeemed instead of
// granting credits twice.
package referral

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/events"
	"github.com/phrazzld/essaylab-api/internal/platform/logger"
	"github.com/phrazzld/essaylab-api/internal/store"
)

// Bonus credits granted by a successful invite redemption.
const (
	InviterBonus = 6
	InviteeBonus = 3
)

// MaxCodeAttempts bounds regeneration after invite code collisions.
const MaxCodeAttempts = 10

// ErrCodeGenerationExhausted is returned when MaxCodeAttempts codes in a row collided.
var ErrCodeGenerationExhausted = errors.New("could not generate a unique invite code")

// DefaultPromoCodes is used when no promo table is configured.
var DefaultPromoCodes = map[string]int{
	"WELCOME3": 3,
	"ESSAYPRO": 5,
}

// InviteCheck is the public answer to "is this invite code usable".
type InviteCheck struct {
	Valid     bool       `json:"valid"`
	Message   string     `json:"message"`
	InviterID *uuid.UUID `json:"inviterId,omitempty"`
}

// RedeemResult describes credits granted to the redeeming account.
type RedeemResult struct {
	Success      bool   `json:"success"`
	BonusCredits int    `json:"bonusCredits"`
	Message      string `json:"message"`
}

// Service manages invite and promo codes.
type Service interface {
	// EnsureInviteCode returns the owner's invite code, creating it on first use.
	EnsureInviteCode(ctx context.Context, ownerID uuid.UUID) (*domain.InviteCode, error)

	// ValidateInvite checks a code without redeeming it. Unknown or malformed
	// codes are reported as invalid rather than as errors.
	ValidateInvite(ctx context.Context, code string) (*InviteCheck, error)

	// RedeemInvite grants InviterBonus to the code owner and InviteeBonus to inviteeID.
	RedeemInvite(ctx context.Context, code string, inviteeID uuid.UUID) (*RedeemResult, error)

	// RedeemPromo grants the bonus mapped to code in the promo table.
	RedeemPromo(ctx context.Context, code string, accountID uuid.UUID) (*RedeemResult, error)
}

// Option configures a referral service.
type Option func(*serviceImpl)

// WithCodeGenerator replaces GenerateCode.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *serviceImpl) { s.generate = gen }
}

// WithEmitter publishes redemption events.
func WithEmitter(e events.EventEmitter) Option {
	return func(s *serviceImpl) { s.emitter = e }
}

type serviceImpl struct {
	db          *sql.DB
	accounts    store.AccountStore
	codes       store.InviteCodeStore
	redemptions store.RedemptionStore
	promos      map[string]int
	generate    func() (string, error)
	emitter     events.EventEmitter
	logger      *slog.Logger
}

var _ Service = (*serviceImpl)(nil)

// NewService creates a referral Service. Promo codes are matched
// case-insensitively; a nil table falls back to DefaultPromoCodes.
func NewService(
	db *sql.DB,
	accounts store.AccountStore,
	codes store.InviteCodeStore,
	redemptions store.RedemptionStore,
	promos map[string]int,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if db == nil {
		panic("db cannot be nil")
	}
	if accounts == nil || codes == nil || redemptions == nil {
		panic("stores cannot be nil")
	}
	if promos == nil {
		promos = DefaultPromoCodes
	}
	if logger == nil {
		logger = slog.Default()
	}

	table := make(map[string]int, len(promos))
	for code, bonus := range promos {
		table[Normalize(code)] = bonus
	}

	s := &serviceImpl{
		db:          db,
		accounts:    accounts,
		codes:       codes,
		redemptions: redemptions,
		promos:      table,
		generate:    GenerateCode,
		logger:      logger.With(slog.String("component", "referral_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureInviteCode implements Service.EnsureInviteCode.
func (s *serviceImpl) EnsureInviteCode(ctx context.Context, ownerID uuid.UUID) (*domain.InviteCode, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	existing, err := s.codes.GetByOwner(ctx, ownerID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}

	for attempt := 1; attempt <= MaxCodeAttempts; attempt++ {
		code, err := s.generate()
		if err != nil {
			return nil, err
		}
		ic := &domain.InviteCode{Code: code, OwnerID: ownerID, CreatedAt: time.Now().UTC()}

		err = s.codes.Create(ctx, ic)
		switch {
		case err == nil:
			log.Info("invite code created",
				slog.String("owner_id", ownerID.String()),
				slog.Int("attempt", attempt))
			return ic, nil
		case errors.Is(err, store.ErrInviteCodeTaken):
			log.Debug("invite code collision, regenerating", slog.Int("attempt", attempt))
			continue
		case errors.Is(err, store.ErrOwnerHasInviteCode):
			// A concurrent request created it first.
			return s.codes.GetByOwner(ctx, ownerID)
		default:
			return nil, fmt.Errorf("failed to create invite code: %w", err)
		}
	}

	log.Error("invite code generation exhausted",
		slog.String("owner_id", ownerID.String()),
		slog.Int("attempts", MaxCodeAttempts))
	return nil, ErrCodeGenerationExhausted
}

// ValidateInvite implements Service.ValidateInvite.
func (s *serviceImpl) ValidateInvite(ctx context.Context, code string) (*InviteCheck, error) {
	code = Normalize(code)
	if !IsValidFormat(code) {
		return &InviteCheck{Valid: false, Message: "Invalid invite code format"}, nil
	}

	ic, err := s.codes.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &InviteCheck{Valid: false, Message: "Invite code not found"}, nil
		}
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}

	inviter, err := s.accounts.GetByID(ctx, ic.OwnerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &InviteCheck{Valid: false, Message: "Invite code not found"}, nil
		}
		return nil, fmt.Errorf("failed to look up inviter: %w", err)
	}

	owner := ic.OwnerID
	return &InviteCheck{
		Valid:     true,
		Message:   "Invited by " + MaskEmail(inviter.Email),
		InviterID: &owner,
	}, nil
}

// RedeemInvite implements Service.RedeemInvite.
func (s *serviceImpl) RedeemInvite(ctx context.Context, code string, inviteeID uuid.UUID) (*RedeemResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	code = Normalize(code)
	if !IsValidFormat(code) {
		return nil, domain.ErrInvalidInviteCode
	}

	ic, err := s.codes.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrUnknownInviteCode
		}
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}
	if ic.OwnerID == inviteeID {
		return nil, domain.ErrSelfRedemption
	}

	redemption, err := domain.NewRedemption(domain.RedemptionInvite, code, inviteeID, InviteeBonus)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		claimed, err := s.redemptions.WithTx(tx).Claim(ctx, redemption)
		if err != nil {
			return fmt.Errorf("failed to record redemption: %w", err)
		}
		if !claimed {
			return domain.ErrAlreadyRedeemed
		}

		accounts := s.accounts.WithTx(tx)
		if err := accounts.AddBonusCredits(ctx, ic.OwnerID, InviterBonus); err != nil {
			return fmt.Errorf("failed to credit inviter: %w", err)
		}
		if err := accounts.AddBonusCredits(ctx, inviteeID, InviteeBonus); err != nil {
			return fmt.Errorf("failed to credit invitee: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyRedeemed) {
			log.Info("duplicate invite redemption rejected",
				slog.String("invitee_id", inviteeID.String()))
			return nil, err
		}
		log.Error("failed to redeem invite",
			slog.String("error", err.Error()),
			slog.String("invitee_id", inviteeID.String()))
		return nil, fmt.Errorf("failed to redeem invite: %w", err)
	}

	events.Emit(ctx, s.emitter, s.logger, events.TypeInviteRedeemed, inviteeID,
		events.RedemptionPayload{Bonus: InviterBonus + InviteeBonus})
	log.Info("invite redeemed",
		slog.String("inviter_id", ic.OwnerID.String()),
		slog.String("invitee_id", inviteeID.String()))

	return &RedeemResult{
		Success:      true,
		BonusCredits: InviteeBonus,
		Message:      fmt.Sprintf("Invite accepted: %d bonus essays added", InviteeBonus),
	}, nil
}

// RedeemPromo implements Service.RedeemPromo.
func (s *serviceImpl) RedeemPromo(ctx context.Context, code string, accountID uuid.UUID) (*RedeemResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	code = Normalize(code)
	if code == "" {
		return nil, domain.ErrInvalidPromoCode
	}
	bonus, ok := s.promos[code]
	if !ok {
		return nil, domain.ErrUnknownPromoCode
	}

	redemption, err := domain.NewRedemption(domain.RedemptionPromo, code, accountID, bonus)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		claimed, err := s.redemptions.WithTx(tx).Claim(ctx, redemption)
		if err != nil {
			return fmt.Errorf("failed to record redemption: %w", err)
		}
		if !claimed {
			return domain.ErrAlreadyRedeemed
		}
		if err := s.accounts.WithTx(tx).AddBonusCredits(ctx, accountID, bonus); err != nil {
			return fmt.Errorf("failed to credit account: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyRedeemed) {
			log.Info("duplicate promo redemption rejected",
				slog.String("account_id", accountID.String()))
			return nil, err
		}
		log.Error("failed to redeem promo code",
			slog.String("error", err.Error()),
			slog.String("account_id", accountID.String()))
		return nil, fmt.Errorf("failed to redeem promo code: %w", err)
	}

	events.Emit(ctx, s.emitter, s.logger, events.TypePromoRedeemed, accountID,
		events.RedemptionPayload{Bonus: bonus})
	log.Info("promo code redeemed",
		slog.String("account_id", accountID.String()),
		slog.Int("bonus", bonus))

	return &RedeemResult{
		Success:      true,
		BonusCredits: bonus,
		Message:      fmt.Sprintf("Promo code %s applied: %d bonus essays added", code, bonus),
	}, nil
}
