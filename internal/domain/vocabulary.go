package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// VocabularyItem is a word extracted from an essay for study.
type VocabularyItem struct {
	ID         uuid.UUID `json:"id"`
	EssayID    uuid.UUID `json:"essay_id"`
	UserID     uuid.UUID `json:"user_id"`
	Word       string    `json:"word"`
	Definition string    `json:"definition"`
	Example    string    `json:"example,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewVocabularyItem creates a validated vocabulary item.
func NewVocabularyItem(userID, essayID uuid.UUID, word, definition, example string) (*VocabularyItem, error) {
	item := &VocabularyItem{
		ID:         uuid.New(),
		EssayID:    essayID,
		UserID:     userID,
		Word:       strings.TrimSpace(word),
		Definition: strings.TrimSpace(definition),
		Example:    strings.TrimSpace(example),
		CreatedAt:  time.Now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate checks identifiers and required text.
func (v *VocabularyItem) Validate() error {
	if v.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if v.EssayID == uuid.Nil {
		return NewValidationError("essay_id", "cannot be empty", ErrInvalidID)
	}
	if v.Word == "" {
		return NewValidationError("word", "cannot be empty", ErrEmptyContent)
	}
	if v.Definition == "" {
		return NewValidationError("definition", "cannot be empty", ErrEmptyContent)
	}
	return nil
}
