package metrics

import (
	"context"
	"fmt"

	"github.com/phrazzld/essaylab-api/internal/events"
)

// EventHandler turns usage events into counter increments.
type EventHandler struct{}

var _ events.EventHandler = EventHandler{}

// HandleEvent implements events.EventHandler.
func (EventHandler) HandleEvent(_ context.Context, event *events.UsageEvent) error {
	UsageEventsTotal.WithLabelValues(event.Type).Inc()

	switch event.Type {
	case events.TypeInviteRedeemed, events.TypePromoRedeemed:
		var p events.RedemptionPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return fmt.Errorf("decode %s payload: %w", event.Type, err)
		}
		kind := "invite"
		if event.Type == events.TypePromoRedeemed {
			kind = "promo"
		}
		BonusCreditsGrantedTotal.WithLabelValues(kind).Add(float64(p.Bonus))
	case events.TypeFlashcardsCreated, events.TypeVocabularyCreated:
		var p events.CountPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return fmt.Errorf("decode %s payload: %w", event.Type, err)
		}
		if event.Type == events.TypeFlashcardsCreated {
			FlashcardsCreatedTotal.Add(float64(p.Count))
		} else {
			VocabularyItemsTotal.Add(float64(p.Count))
		}
	}
	return nil
}
