package redisstore

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient is an in-memory stand-in for the Redis commands the store uses.
type fakeClient struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: make(map[string]string)}
}

func (f *fakeClient) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeClient) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeClient) SetNX(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, ok := f.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.data[key] = string(value.([]byte))
	return redis.NewBoolResult(true, nil)
}

func TestTrialKeyHidesFingerprint(t *testing.T) {
	key := trialKey("device_123")
	assert.True(t, strings.HasPrefix(key, KeyPrefix))
	assert.NotContains(t, key, "device_123")
	assert.Equal(t, key, trialKey("device_123"))
	assert.NotEqual(t, key, trialKey("device_124"))
}

func TestGuestTrialStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewGuestTrialStore(newFakeClient(), 0, nil)

	_, err := s.Get(ctx, "fp_1")
	assert.ErrorIs(t, err, store.ErrGuestTrialNotFound)

	usedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Upsert(ctx, &domain.GuestTrial{Fingerprint: "fp_1", EssayID: "e1", UsedAt: usedAt}))

	got, err := s.Get(ctx, "fp_1")
	require.NoError(t, err)
	assert.Equal(t, "fp_1", got.Fingerprint)
	assert.Equal(t, "e1", got.EssayID)
	assert.True(t, usedAt.Equal(got.UsedAt))
}

func TestGuestTrialStoreInsertIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewGuestTrialStore(newFakeClient(), 0, nil)
	trial := &domain.GuestTrial{Fingerprint: "fp_2", EssayID: "e2", UsedAt: time.Now().UTC()}

	first, err := s.InsertIfAbsent(ctx, trial)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := s.InsertIfAbsent(ctx, trial)
	require.NoError(t, err)
	assert.False(t, second)
}

func TestGuestTrialStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	client.err = errors.New("dial tcp: connection refused")
	s := NewGuestTrialStore(client, time.Hour, nil)
	trial := &domain.GuestTrial{Fingerprint: "fp_3", EssayID: "e3", UsedAt: time.Now().UTC()}

	_, err := s.Get(ctx, "fp_3")
	assert.ErrorIs(t, err, store.ErrUnavailable)

	assert.ErrorIs(t, s.Upsert(ctx, trial), store.ErrUnavailable)

	_, err = s.InsertIfAbsent(ctx, trial)
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestNewGuestTrialStorePanicsOnNilClient(t *testing.T) {
	assert.Panics(t, func() { NewGuestTrialStore(nil, 0, nil) })
}
