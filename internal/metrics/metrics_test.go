package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { MustRegister(reg) })
	assert.Panics(t, func() { MustRegister(reg) })
}

func TestEventHandlerCountsEvents(t *testing.T) {
	h := EventHandler{}
	ctx := context.Background()

	before := testutil.ToFloat64(UsageEventsTotal.WithLabelValues(events.TypeSubmissionRecorded))
	ev, err := events.NewUsageEvent(events.TypeSubmissionRecorded, uuid.New(), nil)
	require.NoError(t, err)
	require.NoError(t, h.HandleEvent(ctx, ev))
	assert.Equal(t, before+1, testutil.ToFloat64(UsageEventsTotal.WithLabelValues(events.TypeSubmissionRecorded)))
}

func TestEventHandlerBonusCredits(t *testing.T) {
	h := EventHandler{}
	ctx := context.Background()

	before := testutil.ToFloat64(BonusCreditsGrantedTotal.WithLabelValues("invite"))
	ev, err := events.NewUsageEvent(events.TypeInviteRedeemed, uuid.New(), events.RedemptionPayload{Bonus: 9})
	require.NoError(t, err)
	require.NoError(t, h.HandleEvent(ctx, ev))
	assert.Equal(t, before+9, testutil.ToFloat64(BonusCreditsGrantedTotal.WithLabelValues("invite")))

	bad := &events.UsageEvent{Type: events.TypePromoRedeemed, Payload: []byte("not json")}
	assert.Error(t, h.HandleEvent(ctx, bad))
}

func TestEventHandlerFlashcardCounts(t *testing.T) {
	h := EventHandler{}
	before := testutil.ToFloat64(FlashcardsCreatedTotal)
	ev, err := events.NewUsageEvent(events.TypeFlashcardsCreated, uuid.New(), events.CountPayload{Count: 4})
	require.NoError(t, err)
	require.NoError(t, h.HandleEvent(context.Background(), ev))
	assert.Equal(t, before+4, testutil.ToFloat64(FlashcardsCreatedTotal))
}

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/flashcards/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := RequestsTotal.WithLabelValues(http.MethodGet, "/api/flashcards/{id}", "418")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/flashcards/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
	assert.Equal(t, float64(0), testutil.ToFloat64(ActiveRequests))
}
