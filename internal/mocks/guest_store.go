package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/store"
)

// MockGuestTrialStore implements store.GuestTrialStore over an in-memory map.
type MockGuestTrialStore struct {
	GetFn            func(ctx context.Context, fingerprint string) (*domain.GuestTrial, error)
	UpsertFn         func(ctx context.Context, trial *domain.GuestTrial) error
	InsertIfAbsentFn func(ctx context.Context, trial *domain.GuestTrial) (bool, error)

	mu     sync.Mutex
	trials map[string]*domain.GuestTrial

	GetCalls int
}

var _ store.GuestTrialStore = (*MockGuestTrialStore)(nil)

// NewMockGuestTrialStore creates an empty MockGuestTrialStore.
func NewMockGuestTrialStore() *MockGuestTrialStore {
	return &MockGuestTrialStore{trials: make(map[string]*domain.GuestTrial)}
}

// Get implements store.GuestTrialStore.
func (m *MockGuestTrialStore) Get(ctx context.Context, fingerprint string) (*domain.GuestTrial, error) {
	m.mu.Lock()
	m.GetCalls++
	m.mu.Unlock()
	if m.GetFn != nil {
		return m.GetFn(ctx, fingerprint)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.trials[fingerprint]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, store.ErrGuestTrialNotFound
}

// Upsert implements store.GuestTrialStore.
func (m *MockGuestTrialStore) Upsert(ctx context.Context, trial *domain.GuestTrial) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, trial)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *trial
	m.trials[trial.Fingerprint] = &cp
	return nil
}

// InsertIfAbsent implements store.GuestTrialStore.
func (m *MockGuestTrialStore) InsertIfAbsent(ctx context.Context, trial *domain.GuestTrial) (bool, error) {
	if m.InsertIfAbsentFn != nil {
		return m.InsertIfAbsentFn(ctx, trial)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trials[trial.Fingerprint]; ok {
		return false, nil
	}
	cp := *trial
	m.trials[trial.Fingerprint] = &cp
	return true, nil
}
