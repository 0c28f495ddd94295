package srs

import (
	"math"

	"cloud.google.com/go/civil"
	"github.com/phrazzld/essaylab-api/internal/domain"
)

// calculateNewEaseFactor applies the SM-2 ease update to the pre-transition
// ease factor and clamps the result at params.MinEaseFactor.
//
// The adjustment is 0.1 - (5-q)*(0.08 + (5-q)*0.02), which gives +0.1 for a
// perfect recall, 0 for quality 4, and increasingly negative values below that.
func calculateNewEaseFactor(currentEF float64, quality int, params *Params) float64 {
	miss := float64(MaxQuality - quality)
	newEF := currentEF + (0.1 - miss*(0.08+miss*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the next interval in days.
//
// Both inputs are the card's values before this grading event. A failed recall
// restarts the card at one day; a pass follows the SM-2 progression of
// FirstInterval, SecondInterval, then round(interval * ease).
func calculateNewInterval(
	currentInterval int,
	repetitionCount int,
	easeFactor float64,
	quality int,
	params *Params,
) int {
	if quality < params.PassThreshold {
		return 1
	}

	switch repetitionCount {
	case 0:
		return params.FirstInterval
	case 1:
		return params.SecondInterval
	default:
		interval := int(math.Round(float64(currentInterval) * easeFactor))
		if interval < 1 {
			interval = 1
		}
		return interval
	}
}

// calculateNextCard returns a copy of card with the schedule advanced by one
// grading event. The input card is not modified.
func calculateNextCard(
	card *domain.Flashcard,
	quality int,
	today civil.Date,
	params *Params,
) *domain.Flashcard {
	next := *card

	next.IntervalDays = calculateNewInterval(
		card.IntervalDays,
		card.RepetitionCount,
		card.EaseFactor,
		quality,
		params,
	)

	if quality < params.PassThreshold {
		next.RepetitionCount = 0
	} else {
		next.RepetitionCount = card.RepetitionCount + 1
	}

	next.EaseFactor = calculateNewEaseFactor(card.EaseFactor, quality, params)
	next.NextReviewDate = today.AddDays(next.IntervalDays)

	return &next
}
