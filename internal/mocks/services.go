package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/flashcard"
	"github.com/phrazzld/essaylab-api/internal/guest"
	"github.com/phrazzld/essaylab-api/internal/quota"
	"github.com/phrazzld/essaylab-api/internal/referral"
	"github.com/phrazzld/essaylab-api/internal/vocabulary"
)

// MockQuotaService implements quota.Service. Unset functions return
// domain.ErrNotFound.
type MockQuotaService struct {
	GetStatusFn        func(ctx context.Context, accountID uuid.UUID) (*quota.Status, error)
	RecordSubmissionFn func(ctx context.Context, accountID uuid.UUID) (*quota.Status, error)
}

var _ quota.Service = (*MockQuotaService)(nil)

// GetStatus implements quota.Service.
func (m *MockQuotaService) GetStatus(ctx context.Context, accountID uuid.UUID) (*quota.Status, error) {
	if m.GetStatusFn != nil {
		return m.GetStatusFn(ctx, accountID)
	}
	return nil, domain.ErrNotFound
}

// RecordSubmission implements quota.Service.
func (m *MockQuotaService) RecordSubmission(ctx context.Context, accountID uuid.UUID) (*quota.Status, error) {
	if m.RecordSubmissionFn != nil {
		return m.RecordSubmissionFn(ctx, accountID)
	}
	return nil, domain.ErrNotFound
}

// MockReferralService implements referral.Service.
type MockReferralService struct {
	EnsureInviteCodeFn func(ctx context.Context, ownerID uuid.UUID) (*domain.InviteCode, error)
	ValidateInviteFn   func(ctx context.Context, code string) (*referral.InviteCheck, error)
	RedeemInviteFn     func(ctx context.Context, code string, inviteeID uuid.UUID) (*referral.RedeemResult, error)
	RedeemPromoFn      func(ctx context.Context, code string, accountID uuid.UUID) (*referral.RedeemResult, error)
}

var _ referral.Service = (*MockReferralService)(nil)

// EnsureInviteCode implements referral.Service.
func (m *MockReferralService) EnsureInviteCode(ctx context.Context, ownerID uuid.UUID) (*domain.InviteCode, error) {
	if m.EnsureInviteCodeFn != nil {
		return m.EnsureInviteCodeFn(ctx, ownerID)
	}
	return nil, domain.ErrNotFound
}

// ValidateInvite implements referral.Service.
func (m *MockReferralService) ValidateInvite(ctx context.Context, code string) (*referral.InviteCheck, error) {
	if m.ValidateInviteFn != nil {
		return m.ValidateInviteFn(ctx, code)
	}
	return &referral.InviteCheck{Valid: false, Message: "Invite code not found"}, nil
}

// RedeemInvite implements referral.Service.
func (m *MockReferralService) RedeemInvite(
	ctx context.Context,
	code string,
	inviteeID uuid.UUID,
) (*referral.RedeemResult, error) {
	if m.RedeemInviteFn != nil {
		return m.RedeemInviteFn(ctx, code, inviteeID)
	}
	return nil, domain.ErrUnknownInviteCode
}

// RedeemPromo implements referral.Service.
func (m *MockReferralService) RedeemPromo(
	ctx context.Context,
	code string,
	accountID uuid.UUID,
) (*referral.RedeemResult, error) {
	if m.RedeemPromoFn != nil {
		return m.RedeemPromoFn(ctx, code, accountID)
	}
	return nil, domain.ErrUnknownPromoCode
}

// MockFlashcardService implements flashcard.Service.
type MockFlashcardService struct {
	GradeFn          func(ctx context.Context, userID, cardID uuid.UUID, quality int) (*domain.Flashcard, error)
	CreateForEssayFn func(ctx context.Context, userID, essayID uuid.UUID) ([]*domain.Flashcard, error)
	ListDueFn        func(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Flashcard, error)
}

var _ flashcard.Service = (*MockFlashcardService)(nil)

// Grade implements flashcard.Service.
func (m *MockFlashcardService) Grade(
	ctx context.Context,
	userID, cardID uuid.UUID,
	quality int,
) (*domain.Flashcard, error) {
	if m.GradeFn != nil {
		return m.GradeFn(ctx, userID, cardID, quality)
	}
	return nil, domain.ErrNotFound
}

// CreateForEssay implements flashcard.Service.
func (m *MockFlashcardService) CreateForEssay(
	ctx context.Context,
	userID, essayID uuid.UUID,
) ([]*domain.Flashcard, error) {
	if m.CreateForEssayFn != nil {
		return m.CreateForEssayFn(ctx, userID, essayID)
	}
	return nil, nil
}

// ListDue implements flashcard.Service.
func (m *MockFlashcardService) ListDue(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Flashcard, error) {
	if m.ListDueFn != nil {
		return m.ListDueFn(ctx, userID, limit)
	}
	return nil, nil
}

// MockVocabularyService implements vocabulary.Service.
type MockVocabularyService struct {
	GenerateForEssayFn func(ctx context.Context, userID, essayID uuid.UUID, text string) (*vocabulary.Result, error)
}

var _ vocabulary.Service = (*MockVocabularyService)(nil)

// GenerateForEssay implements vocabulary.Service.
func (m *MockVocabularyService) GenerateForEssay(
	ctx context.Context,
	userID, essayID uuid.UUID,
	text string,
) (*vocabulary.Result, error) {
	if m.GenerateForEssayFn != nil {
		return m.GenerateForEssayFn(ctx, userID, essayID, text)
	}
	return &vocabulary.Result{}, nil
}

// MockGuestGate stands in for guest.Gate in handler tests.
type MockGuestGate struct {
	CheckUsageFn func(ctx context.Context, fingerprint string) (*guest.Usage, error)
	MarkUsedFn   func(ctx context.Context, fingerprint, essayID string) error
	ClaimFn      func(ctx context.Context, fingerprint, essayID string) (bool, *domain.GuestTrial, error)
}

// CheckUsage reports an unused trial unless overridden.
func (m *MockGuestGate) CheckUsage(ctx context.Context, fingerprint string) (*guest.Usage, error) {
	if m.CheckUsageFn != nil {
		return m.CheckUsageFn(ctx, fingerprint)
	}
	return &guest.Usage{}, nil
}

// MarkUsed succeeds unless overridden.
func (m *MockGuestGate) MarkUsed(ctx context.Context, fingerprint, essayID string) error {
	if m.MarkUsedFn != nil {
		return m.MarkUsedFn(ctx, fingerprint, essayID)
	}
	return nil
}

// Claim grants the trial unless overridden.
func (m *MockGuestGate) Claim(ctx context.Context, fingerprint, essayID string) (bool, *domain.GuestTrial, error) {
	if m.ClaimFn != nil {
		return m.ClaimFn(ctx, fingerprint, essayID)
	}
	return true, nil, nil
}
