package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountDailyReset(t *testing.T) {
	yesterday := civil.Date{Year: 2024, Month: 1, Day: 1}
	today := civil.Date{Year: 2024, Month: 1, Day: 2}

	acct := &Account{ID: uuid.New(), DailyCount: 3, LastResetDate: yesterday, LifetimeCount: 7}

	require.True(t, acct.NeedsDailyReset(today))
	acct.ApplyDailyReset(today)

	assert.Equal(t, 0, acct.DailyCount)
	assert.Equal(t, today, acct.LastResetDate)
	assert.Equal(t, 7, acct.LifetimeCount, "lifetime count is untouched by the daily reset")
	assert.False(t, acct.NeedsDailyReset(today), "a second reset on the same day is a no-op")
}

func TestAccountValidate(t *testing.T) {
	assert.NoError(t, (&Account{ID: uuid.New()}).Validate())
	assert.ErrorIs(t, (&Account{}).Validate(), ErrInvalidID)
	assert.ErrorIs(t, (&Account{ID: uuid.New(), BonusCredits: -1}).Validate(), ErrValidation)
}

func TestValidateFingerprint(t *testing.T) {
	tests := []struct {
		name    string
		fp      string
		wantErr bool
	}{
		{"hash fingerprint", "a1b2c3d4e5f6", false},
		{"fallback fingerprint", "fb_1x9zq3", false},
		{"namespaced", "fp:v2:abc-DEF", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxFingerprintLength+1), true},
		{"whitespace", "abc def", true},
		{"markup", "<script>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFingerprint(tt.fp)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFingerprint)
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewFlashcard(t *testing.T) {
	today := civil.Date{Year: 2024, Month: 3, Day: 10}
	card, err := NewFlashcard(uuid.New(), uuid.New(), uuid.New(), today)
	require.NoError(t, err)

	assert.Equal(t, DefaultEaseFactor, card.EaseFactor)
	assert.Equal(t, 1, card.IntervalDays)
	assert.Equal(t, 0, card.RepetitionCount)
	assert.Equal(t, today, card.NextReviewDate)
	assert.True(t, card.IsDue(today))
	assert.False(t, card.IsDue(today.AddDays(-1)))

	_, err = NewFlashcard(uuid.Nil, uuid.New(), uuid.New(), today)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestFlashcardValidateScheduleBounds(t *testing.T) {
	base := Flashcard{
		UserID:           uuid.New(),
		VocabularyItemID: uuid.New(),
		EaseFactor:       MinEaseFactor,
		IntervalDays:     1,
		NextReviewDate:   civil.Date{Year: 2024, Month: 1, Day: 1},
	}
	require.NoError(t, base.Validate())

	low := base
	low.EaseFactor = 1.29
	assert.ErrorIs(t, low.Validate(), ErrInvalidSchedule)

	zero := base
	zero.IntervalDays = 0
	assert.ErrorIs(t, zero.Validate(), ErrInvalidSchedule)
}

func TestNewRedemption(t *testing.T) {
	r, err := NewRedemption(RedemptionInvite, "ABCD1234", uuid.New(), 3)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, r.ID)

	_, err = NewRedemption("gift", "ABCD1234", uuid.New(), 3)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewRedemption(RedemptionPromo, "WELCOME3", uuid.New(), 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewVocabularyItemTrims(t *testing.T) {
	item, err := NewVocabularyItem(uuid.New(), uuid.New(), "  ubiquitous ", " found everywhere ", "")
	require.NoError(t, err)
	assert.Equal(t, "ubiquitous", item.Word)
	assert.Equal(t, "found everywhere", item.Definition)

	_, err = NewVocabularyItem(uuid.New(), uuid.New(), "  ", "x", "")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestErrorFamilies(t *testing.T) {
	assert.True(t, errors.Is(ErrAlreadyRedeemed, ErrConflict))
	assert.True(t, errors.Is(ErrUnknownPromoCode, ErrNotFound))
	assert.True(t, errors.Is(ErrInvalidQuality, ErrValidation))
	assert.True(t, errors.Is(ErrFlashcardNotOwned, ErrUnauthorized))

	verr := NewValidationError("code", "is required", nil)
	assert.Equal(t, "code is required", verr.Error())
	assert.ErrorIs(t, verr, ErrValidation)
}

func TestDateIn(t *testing.T) {
	// 23:30 UTC on Jan 1 is already Jan 2 in Tokyo.
	instant := time.Date(2025, 1, 1, 23, 30, 0, 0, time.UTC)
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	assert.Equal(t, civil.Date{Year: 2025, Month: time.January, Day: 1}, DateIn(instant, nil))
	assert.Equal(t, civil.Date{Year: 2025, Month: time.January, Day: 2}, DateIn(instant, tokyo))
}
