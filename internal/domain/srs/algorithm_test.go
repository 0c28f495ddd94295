package srs

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCalculateNewInterval(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  int
		reps     int
		ef       float64
		quality  int
		expected int
	}{
		{"first pass", 1, 0, 2.5, 4, 1},
		{"second pass", 1, 1, 2.5, 5, 6},
		{"third pass multiplies by ease", 6, 2, 2.5, 4, 15},
		{"rounds to nearest day", 6, 3, 2.36, 3, 14},
		{"rounds half up", 5, 4, 1.3, 3, 7},
		{"pass at threshold", 10, 5, 1.3, 3, 13},
		{"fail resets to one day", 40, 7, 2.8, 2, 1},
		{"blackout resets to one day", 40, 7, 2.8, 0, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := calculateNewInterval(tc.current, tc.reps, tc.ef, tc.quality, params)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCalculateNewEaseFactor(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		quality  int
		current  float64
		expected float64
	}{
		{5, 2.5, 2.6},
		{4, 2.5, 2.5},
		{3, 2.5, 2.36},
		{2, 2.5, 2.18},
		{1, 2.5, 1.96},
		{0, 2.5, 1.7},
		{0, 1.4, 1.3},
		{2, 1.3, 1.3},
	}

	for _, tc := range testCases {
		got := calculateNewEaseFactor(tc.current, tc.quality, params)
		assert.InDelta(t, tc.expected, got, 1e-9, "quality %d from %.2f", tc.quality, tc.current)
	}
}

func TestCalculateNextCardDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	today := civil.Date{Year: 2024, Month: 5, Day: 1}
	card := &domain.Flashcard{
		ID:              uuid.New(),
		EaseFactor:      2.5,
		IntervalDays:    6,
		RepetitionCount: 2,
		NextReviewDate:  today,
	}
	original := *card

	next := calculateNextCard(card, 5, today, NewDefaultParams())

	assert.Equal(t, original, *card)
	assert.Equal(t, card.ID, next.ID)
	assert.Equal(t, 15, next.IntervalDays)
	assert.Equal(t, 3, next.RepetitionCount)
	assert.Equal(t, today.AddDays(15), next.NextReviewDate)
}

// The fail branch uses the pre-transition ease as the base of its ease update,
// the same as the pass branch.
func TestFailUsesPreTransitionEase(t *testing.T) {
	t.Parallel()
	today := civil.Date{Year: 2024, Month: 5, Day: 1}
	card := &domain.Flashcard{EaseFactor: 2.6, IntervalDays: 6, RepetitionCount: 2}

	next := calculateNextCard(card, 2, today, NewDefaultParams())

	assert.Equal(t, 0, next.RepetitionCount)
	assert.Equal(t, 1, next.IntervalDays)
	assert.InDelta(t, 2.28, next.EaseFactor, 1e-9)
	assert.Equal(t, today.AddDays(1), next.NextReviewDate)
}
