// Package metrics defines the Prometheus collectors exported on /metrics and
// the glue that feeds them from HTTP traffic and usage events.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Request volume, by method, route pattern and status code.
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "essaylab_requests_total",
		Help: "Total number of API requests received.",
	}, []string{"method", "route", "status"})

	// In flight
	ActiveRequests = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "essaylab_active_requests",
		Help: "Current number of in-flight requests.",
	})

	RequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "essaylab_request_duration_seconds",
		Help:    "End-to-end handler duration for API requests.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"route"})

	// Committed usage events, by event type.
	UsageEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "essaylab_usage_events_total",
		Help: "Usage events emitted by the accounting services.",
	}, []string{"type"})

	BonusCreditsGrantedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "essaylab_bonus_credits_granted_total",
		Help: "Bonus essay credits granted through invite and promo codes.",
	}, []string{"kind"})

	FlashcardsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "essaylab_flashcards_created_total",
		Help: "Flashcards inserted, excluding duplicates skipped on conflict.",
	})

	VocabularyItemsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "essaylab_vocabulary_items_total",
		Help: "Vocabulary items extracted from essays.",
	})
)

// MustRegister registers every collector with reg.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		RequestsTotal,
		ActiveRequests,
		RequestDurationSeconds,
		UsageEventsTotal,
		BonusCreditsGrantedTotal,
		FlashcardsCreatedTotal,
		VocabularyItemsTotal,
	)
}
