// Package redisstore keeps guest trial markers in Redis for deployments that
// want the dedup gate off the primary database.
package redisstore

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/platform/logger"
	"github.com/phrazzld/essaylab-api/internal/store"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

// KeyPrefix namespaces guest trial keys.
const KeyPrefix = "guest:trial:"

// Client is the subset of *redis.Client used by GuestTrialStore.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// GuestTrialStore implements store.GuestTrialStore on Redis. Markers never
// expire unless a TTL is configured.
type GuestTrialStore struct {
	client Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ store.GuestTrialStore = (*GuestTrialStore)(nil)

// NewGuestTrialStore creates a Redis backed guest trial store.
// A zero ttl keeps markers forever.
func NewGuestTrialStore(client Client, ttl time.Duration, logger *slog.Logger) *GuestTrialStore {
	if client == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("redis client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GuestTrialStore{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "redis_guest_store")),
	}
}

// trialKey hashes the fingerprint so raw device identifiers never appear in
// the keyspace.
func trialKey(fingerprint string) string {
	sum := blake2b.Sum256([]byte(fingerprint))
	return KeyPrefix + hex.EncodeToString(sum[:])
}

// Get implements store.GuestTrialStore.Get
func (s *GuestTrialStore) Get(ctx context.Context, fingerprint string) (*domain.GuestTrial, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	raw, err := s.client.Get(ctx, trialKey(fingerprint)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrGuestTrialNotFound
		}
		log.Warn("failed to read guest trial", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	var trial domain.GuestTrial
	if err := json.Unmarshal(raw, &trial); err != nil {
		return nil, fmt.Errorf("failed to decode guest trial: %w", err)
	}
	trial.Fingerprint = fingerprint
	return &trial, nil
}

// Upsert implements store.GuestTrialStore.Upsert
func (s *GuestTrialStore) Upsert(ctx context.Context, trial *domain.GuestTrial) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	payload, err := encodeTrial(trial)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, trialKey(trial.Fingerprint), payload, s.ttl).Err(); err != nil {
		log.Warn("failed to write guest trial", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// InsertIfAbsent implements store.GuestTrialStore.InsertIfAbsent
func (s *GuestTrialStore) InsertIfAbsent(ctx context.Context, trial *domain.GuestTrial) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	payload, err := encodeTrial(trial)
	if err != nil {
		return false, err
	}
	ok, err := s.client.SetNX(ctx, trialKey(trial.Fingerprint), payload, s.ttl).Result()
	if err != nil {
		log.Warn("failed to claim guest trial", slog.String("error", err.Error()))
		return false, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return ok, nil
}

// The fingerprint itself is not stored in the value.
func encodeTrial(trial *domain.GuestTrial) ([]byte, error) {
	payload, err := json.Marshal(struct {
		EssayID string    `json:"essay_id"`
		UsedAt  time.Time `json:"used_at"`
	}{trial.EssayID, trial.UsedAt})
	if err != nil {
		return nil, fmt.Errorf("failed to encode guest trial: %w", err)
	}
	return payload, nil
}
