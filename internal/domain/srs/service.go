package srs

import (
	"errors"

	"cloud.google.com/go/civil"
	"github.com/phrazzld/essaylab-api/internal/domain"
)

// ErrNilCard is returned when no flashcard is supplied.
var ErrNilCard = errors.New("flashcard cannot be nil")

// Service defines the interface for SRS algorithm operations
type Service interface {
	// CalculateNextReview computes the card's schedule after a grading event.
	// It returns domain.ErrInvalidQuality for quality outside [0,5] without
	// touching the card.
	CalculateNextReview(card *domain.Flashcard, quality int, today civil.Date) (*domain.Flashcard, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// CalculateNextReview implements the Service interface.
func (s *defaultService) CalculateNextReview(
	card *domain.Flashcard,
	quality int,
	today civil.Date,
) (*domain.Flashcard, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	if !IsValidQuality(quality) {
		return nil, domain.ErrInvalidQuality
	}

	return calculateNextCard(card, quality, today, s.params), nil
}

// IsValidQuality reports whether quality is within [0,5].
func IsValidQuality(quality int) bool {
	return quality >= MinQuality && quality <= MaxQuality
}
