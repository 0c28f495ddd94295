package domain

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// Initial scheduling state of a freshly created flashcard.
const (
	DefaultEaseFactor   = 2.5
	MinEaseFactor       = 1.3
	InitialIntervalDays = 1
)

// Flashcard is a vocabulary item under spaced-repetition review. Cards are
// never deleted; their schedule is only ever moved forward by grading.
type Flashcard struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	EssayID          uuid.UUID  `json:"essay_id"`
	VocabularyItemID uuid.UUID  `json:"vocabulary_item_id"`
	EaseFactor       float64    `json:"ease_factor"`
	IntervalDays     int        `json:"interval_days"`
	RepetitionCount  int        `json:"repetition_count"`
	NextReviewDate   civil.Date `json:"next_review_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Populated on reads that join the vocabulary item.
	Word       string `json:"word,omitempty"`
	Definition string `json:"definition,omitempty"`
}

// NewFlashcard creates a card for a vocabulary item that is due today.
func NewFlashcard(userID, essayID, vocabularyItemID uuid.UUID, today civil.Date) (*Flashcard, error) {
	now := time.Now().UTC()
	card := &Flashcard{
		ID:               uuid.New(),
		UserID:           userID,
		EssayID:          essayID,
		VocabularyItemID: vocabularyItemID,
		EaseFactor:       DefaultEaseFactor,
		IntervalDays:     InitialIntervalDays,
		RepetitionCount:  0,
		NextReviewDate:   today,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}
	return card, nil
}

// Validate checks identifiers and the schedule bounds.
func (c *Flashcard) Validate() error {
	if c.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if c.VocabularyItemID == uuid.Nil {
		return NewValidationError("vocabulary_item_id", "cannot be empty", ErrInvalidID)
	}
	if c.EaseFactor < MinEaseFactor {
		return NewValidationError("ease_factor", "must be at least 1.3", ErrInvalidSchedule)
	}
	if c.IntervalDays < 1 {
		return NewValidationError("interval_days", "must be at least 1", ErrInvalidSchedule)
	}
	if c.RepetitionCount < 0 {
		return NewValidationError("repetition_count", "cannot be negative", ErrInvalidSchedule)
	}
	if !c.NextReviewDate.IsValid() {
		return NewValidationError("next_review_date", "is not a valid date", ErrInvalidSchedule)
	}
	return nil
}

// IsDue reports whether the card should be reviewed on or before today.
func (c *Flashcard) IsDue(today civil.Date) bool {
	return !c.NextReviewDate.After(today)
}
