package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler captures events for assertions.
type recordingHandler struct {
	mu     sync.Mutex
	events []*UsageEvent
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *UsageEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func TestInMemoryEventEmitter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		event, err := NewUsageEvent(TypeSubmissionRecorded, uuid.New(), nil)
		require.NoError(t, err)

		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		h1, h2 := &recordingHandler{}, &recordingHandler{}
		emitter.RegisterHandler(h1)
		emitter.RegisterHandler(h2)

		event, err := NewUsageEvent(TypePromoRedeemed, uuid.New(), map[string]int{"bonus": 3})
		require.NoError(t, err)

		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		require.Len(t, h1.events, 1)
		require.Len(t, h2.events, 1)
		assert.Same(t, event, h1.events[0])
	})

	t.Run("failing handler does not stop delivery", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		failing := &recordingHandler{err: errors.New("handler error")}
		ok := &recordingHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(ok)

		event, err := NewUsageEvent(TypeGuestClaimed, uuid.Nil, nil)
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		assert.EqualError(t, err, "handler error")
		assert.Len(t, ok.events, 1)
	})
}

func TestEmitSwallowsErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	emitter := NewInMemoryEventEmitter(logger)
	h := &recordingHandler{err: errors.New("boom")}
	emitter.RegisterHandler(h)

	assert.NotPanics(t, func() {
		Emit(context.Background(), emitter, logger, TypeFlashcardGraded, uuid.New(), map[string]int{"quality": 4})
	})
	assert.Len(t, h.events, 1)

	assert.NotPanics(t, func() {
		Emit(context.Background(), nil, logger, TypeFlashcardGraded, uuid.New(), nil)
	})
}

func TestHandlerFunc(t *testing.T) {
	called := false
	var h EventHandler = HandlerFunc(func(context.Context, *UsageEvent) error {
		called = true
		return nil
	})
	require.NoError(t, h.HandleEvent(context.Background(), &UsageEvent{}))
	assert.True(t, called)
}
