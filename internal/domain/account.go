package domain

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// Tier is the plan an account is on. It is derived from the email address and
// never stored.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// Account holds the usage counters of a registered user. The row is created by
// the auth backend; this service only reads and updates the counters.
type Account struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`

	// DailyCount is only meaningful together with LastResetDate.
	DailyCount    int        `json:"daily_count"`
	LastResetDate civil.Date `json:"last_reset_date"`

	LifetimeCount int `json:"lifetime_count"`
	BonusCredits  int `json:"bonus_credits"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NeedsDailyReset reports whether the daily counter belongs to a day other than today.
func (a *Account) NeedsDailyReset(today civil.Date) bool {
	return a.LastResetDate != today
}

// ApplyDailyReset zeroes the daily counter for today. Callers persist the
// change before relying on it.
func (a *Account) ApplyDailyReset(today civil.Date) {
	a.DailyCount = 0
	a.LastResetDate = today
}

// Validate checks the counter invariants.
func (a *Account) Validate() error {
	if a.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if a.DailyCount < 0 || a.LifetimeCount < 0 || a.BonusCredits < 0 {
		return NewValidationError("counters", "cannot be negative", ErrValidation)
	}
	return nil
}
