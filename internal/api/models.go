package api

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/quota"
)

// RedeemCodeRequest is the payload for invite and promo redemption.
type RedeemCodeRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

// ValidateInviteRequest is the payload for the public invite check.
type ValidateInviteRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

// InviteCodeResponse carries the caller's own invite code.
type InviteCodeResponse struct {
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// GuestCheckRequest identifies an anonymous browser.
type GuestCheckRequest struct {
	Fingerprint string `json:"fingerprint" validate:"required,max=256"`
}

// GuestCheckResponse reports whether the guest trial was consumed.
type GuestCheckResponse struct {
	HasUsed bool       `json:"hasUsed"`
	EssayID string     `json:"essayId,omitempty"`
	UsedAt  *time.Time `json:"usedAt,omitempty"`
}

// GuestMarkRequest records the essay that consumed a guest trial.
type GuestMarkRequest struct {
	Fingerprint string `json:"fingerprint" validate:"required,max=256"`
	EssayID     string `json:"essayId" validate:"required,max=128"`
}

// GuestClaimResponse is returned by the atomic claim endpoint.
type GuestClaimResponse struct {
	Claimed bool `json:"claimed"`
	GuestCheckResponse
}

// SuccessResponse is a bare acknowledgement.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// GradeRequest is the payload for grading a flashcard.
type GradeRequest struct {
	Quality *int `json:"quality" validate:"required,gte=0,lte=5"`
}

// CreateFlashcardsRequest asks for flashcards for an essay's vocabulary.
type CreateFlashcardsRequest struct {
	EssayID string `json:"essayId" validate:"required,uuid"`
}

// GenerateVocabularyRequest carries the essay text to mine.
type GenerateVocabularyRequest struct {
	Text string `json:"text" validate:"required"`
}

// ScheduleResponse is the schedule of a flashcard after grading.
type ScheduleResponse struct {
	ID              uuid.UUID  `json:"id"`
	EaseFactor      float64    `json:"ease_factor"`
	IntervalDays    int        `json:"interval_days"`
	RepetitionCount int        `json:"repetition_count"`
	NextReviewDate  civil.Date `json:"next_review_date"`
}

// FlashcardListResponse wraps a list of flashcards.
type FlashcardListResponse struct {
	Flashcards []*domain.Flashcard `json:"flashcards"`
	Count      int                 `json:"count"`
}

// VocabularyResponse lists generated vocabulary and its flashcards.
type VocabularyResponse struct {
	Vocabulary []*domain.VocabularyItem `json:"vocabulary"`
	Flashcards []*domain.Flashcard      `json:"flashcards"`
}

func scheduleResponse(card *domain.Flashcard) ScheduleResponse {
	return ScheduleResponse{
		ID:              card.ID,
		EaseFactor:      card.EaseFactor,
		IntervalDays:    card.IntervalDays,
		RepetitionCount: card.RepetitionCount,
		NextReviewDate:  card.NextReviewDate,
	}
}

func flashcardList(cards []*domain.Flashcard) FlashcardListResponse {
	if cards == nil {
		cards = []*domain.Flashcard{}
	}
	return FlashcardListResponse{Flashcards: cards, Count: len(cards)}
}

// QuotaExceededResponse is returned with 429 so clients can show the
// remaining allowance without a second request.
type QuotaExceededResponse struct {
	Error   string        `json:"error"`
	TraceID string        `json:"trace_id,omitempty"`
	Status  *quota.Status `json:"status"`
}
