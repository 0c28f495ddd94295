package srs_test

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/domain/srs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCard(today civil.Date) *domain.Flashcard {
	return &domain.Flashcard{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		VocabularyItemID: uuid.New(),
		EaseFactor:       2.5,
		IntervalDays:     1,
		RepetitionCount:  0,
		NextReviewDate:   today,
	}
}

func TestCalculateNextReviewSequence(t *testing.T) {
	svc := srs.NewDefaultService()
	today := civil.Date{Year: 2024, Month: 1, Day: 1}
	card := newCard(today)

	steps := []struct {
		quality      int
		wantInterval int
		wantReps     int
		wantEase     float64
	}{
		{4, 1, 1, 2.5},
		{5, 6, 2, 2.6},
		{2, 1, 0, 2.28},
	}

	for i, step := range steps {
		next, err := svc.CalculateNextReview(card, step.quality, today)
		require.NoError(t, err, "step %d", i)

		assert.Equal(t, step.wantInterval, next.IntervalDays, "step %d interval", i)
		assert.Equal(t, step.wantReps, next.RepetitionCount, "step %d repetitions", i)
		assert.InDelta(t, step.wantEase, next.EaseFactor, 1e-9, "step %d ease", i)
		assert.Equal(t, today.AddDays(step.wantInterval), next.NextReviewDate, "step %d date", i)

		card = next
	}
}

func TestEaseFactorFloor(t *testing.T) {
	svc := srs.NewDefaultService()
	today := civil.Date{Year: 2024, Month: 1, Day: 1}
	card := newCard(today)

	for i := 0; i < 50; i++ {
		next, err := svc.CalculateNextReview(card, 0, today)
		require.NoError(t, err)
		require.GreaterOrEqual(t, next.EaseFactor, 1.3)
		card = next
	}
	assert.InDelta(t, 1.3, card.EaseFactor, 1e-9)
}

func TestFailResetsRegardlessOfState(t *testing.T) {
	svc := srs.NewDefaultService()
	today := civil.Date{Year: 2024, Month: 1, Day: 1}

	for _, q := range []int{0, 1, 2} {
		card := newCard(today)
		card.RepetitionCount = 9
		card.IntervalDays = 120
		card.EaseFactor = 2.9

		next, err := svc.CalculateNextReview(card, q, today)
		require.NoError(t, err)
		assert.Equal(t, 0, next.RepetitionCount, "quality %d", q)
		assert.Equal(t, 1, next.IntervalDays, "quality %d", q)
	}
}

func TestInvalidQualityRejectedBeforeMutation(t *testing.T) {
	svc := srs.NewDefaultService()
	today := civil.Date{Year: 2024, Month: 1, Day: 1}

	for _, q := range []int{-1, 6, 100} {
		card := newCard(today)
		before := *card

		next, err := svc.CalculateNextReview(card, q, today)
		assert.ErrorIs(t, err, domain.ErrInvalidQuality, "quality %d", q)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Nil(t, next)
		assert.Equal(t, before, *card)
	}
}

func TestNilCard(t *testing.T) {
	_, err := srs.NewDefaultService().CalculateNextReview(nil, 3, civil.Date{Year: 2024, Month: 1, Day: 1})
	assert.ErrorIs(t, err, srs.ErrNilCard)
}

func TestIsValidQuality(t *testing.T) {
	for q := 0; q <= 5; q++ {
		assert.True(t, srs.IsValidQuality(q))
	}
	assert.False(t, srs.IsValidQuality(-1))
	assert.False(t, srs.IsValidQuality(6))
}
