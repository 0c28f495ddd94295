package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the accounting services.
const (
	TypeSubmissionRecorded = "submission.recorded"
	TypeSubmissionRejected = "submission.rejected"
	TypeDailyReset         = "quota.daily_reset"
	TypeInviteRedeemed     = "invite.redeemed"
	TypePromoRedeemed      = "promo.redeemed"
	TypeGuestClaimed       = "guest.claimed"
	TypeGuestBlocked       = "guest.blocked"
	TypeFlashcardGraded    = "flashcard.graded"
	TypeFlashcardsCreated  = "flashcards.created"
	TypeVocabularyCreated  = "vocabulary.created"
)

// UsageEvent records a committed change to usage or scheduling state.
type UsageEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	Type string `json:"type"`

	// AccountID is uuid.Nil for anonymous (guest) events.
	AccountID uuid.UUID `json:"account_id"`

	// Payload contains event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *UsageEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewUsageEvent creates a UsageEvent. A nil payload is left empty.
func NewUsageEvent(eventType string, accountID uuid.UUID, payload interface{}) (*UsageEvent, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	return &UsageEvent{
		ID:        uuid.New(),
		Type:      eventType,
		AccountID: accountID,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *UsageEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *UsageEvent) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *UsageEvent) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *UsageEvent) error {
	return f(ctx, event)
}

// RedemptionPayload accompanies invite and promo redemption events.
// Bonus is the total number of credits granted across all accounts.
type RedemptionPayload struct {
	Bonus int `json:"bonus"`
}

// CountPayload accompanies batch events.
type CountPayload struct {
	Count int `json:"count"`
}
