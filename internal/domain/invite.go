package domain

import (
	"time"

	"github.com/google/uuid"
)

// InviteCode is the single shareable code bound to an account for life.
type InviteCode struct {
	Code      string    `json:"code"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RedemptionKind distinguishes invite and promo redemptions.
type RedemptionKind string

const (
	RedemptionInvite RedemptionKind = "invite"
	RedemptionPromo  RedemptionKind = "promo"
)

// Redemption records that RedeemerID claimed Code once. The pair
// (Kind, Code, RedeemerID) is unique.
type Redemption struct {
	ID           uuid.UUID      `json:"id"`
	Kind         RedemptionKind `json:"kind"`
	Code         string         `json:"code"`
	RedeemerID   uuid.UUID      `json:"redeemer_id"`
	BonusGranted int            `json:"bonus_granted"`
	CreatedAt    time.Time      `json:"created_at"`
}

// NewRedemption creates a redemption record stamped with the current time.
func NewRedemption(kind RedemptionKind, code string, redeemerID uuid.UUID, bonus int) (*Redemption, error) {
	r := &Redemption{
		ID:           uuid.New(),
		Kind:         kind,
		Code:         code,
		RedeemerID:   redeemerID,
		BonusGranted: bonus,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks that the redemption is well formed.
func (r *Redemption) Validate() error {
	switch r.Kind {
	case RedemptionInvite, RedemptionPromo:
	default:
		return NewValidationError("kind", "must be invite or promo", ErrValidation)
	}
	if r.Code == "" {
		return NewValidationError("code", "cannot be empty", ErrValidation)
	}
	if r.RedeemerID == uuid.Nil {
		return NewValidationError("redeemer_id", "cannot be empty", ErrInvalidID)
	}
	if r.BonusGranted <= 0 {
		return NewValidationError("bonus_granted", "must be positive", ErrValidation)
	}
	return nil
}
