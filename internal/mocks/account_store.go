package mocks

import (
	"context"
	"database/sql"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/store"
)

// MockAccountStore implements store.AccountStore over an in-memory map.
type MockAccountStore struct {
	GetByIDFn         func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetForUpdateFn    func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ResetDailyFn      func(ctx context.Context, id uuid.UUID, today civil.Date) (bool, error)
	IncrementUsageFn  func(ctx context.Context, id uuid.UUID) error
	AddBonusCreditsFn func(ctx context.Context, id uuid.UUID, amount int) error

	mu       sync.Mutex
	accounts map[uuid.UUID]*domain.Account

	// Call counters for verification
	ResetDailyCalls     int
	IncrementUsageCalls int
	AddBonusCalls       int
}

var _ store.AccountStore = (*MockAccountStore)(nil)

// NewMockAccountStore creates an empty MockAccountStore.
func NewMockAccountStore() *MockAccountStore {
	return &MockAccountStore{accounts: make(map[uuid.UUID]*domain.Account)}
}

// Put stores a copy of acct.
func (m *MockAccountStore) Put(acct *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *acct
	m.accounts[acct.ID] = &cp
}

// Account returns a copy of the stored account, or nil.
func (m *MockAccountStore) Account(id uuid.UUID) *domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil
	}
	cp := *a
	return &cp
}

// GetByID implements store.AccountStore.
func (m *MockAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if a := m.Account(id); a != nil {
		return a, nil
	}
	return nil, store.ErrAccountNotFound
}

// GetForUpdate implements store.AccountStore.
func (m *MockAccountStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, id)
	}
	return m.GetByID(ctx, id)
}

// ResetDaily implements store.AccountStore.
func (m *MockAccountStore) ResetDaily(ctx context.Context, id uuid.UUID, today civil.Date) (bool, error) {
	m.mu.Lock()
	m.ResetDailyCalls++
	m.mu.Unlock()
	if m.ResetDailyFn != nil {
		return m.ResetDailyFn(ctx, id, today)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok || a.LastResetDate == today {
		return false, nil
	}
	a.ApplyDailyReset(today)
	return true, nil
}

// IncrementUsage implements store.AccountStore.
func (m *MockAccountStore) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	m.IncrementUsageCalls++
	m.mu.Unlock()
	if m.IncrementUsageFn != nil {
		return m.IncrementUsageFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return store.ErrAccountNotFound
	}
	a.DailyCount++
	a.LifetimeCount++
	return nil
}

// AddBonusCredits implements store.AccountStore.
func (m *MockAccountStore) AddBonusCredits(ctx context.Context, id uuid.UUID, amount int) error {
	m.mu.Lock()
	m.AddBonusCalls++
	m.mu.Unlock()
	if m.AddBonusCreditsFn != nil {
		return m.AddBonusCreditsFn(ctx, id, amount)
	}
	if amount <= 0 {
		return store.ErrInvalidEntity
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return store.ErrAccountNotFound
	}
	a.BonusCredits += amount
	return nil
}

// WithTx returns the receiver.
func (m *MockAccountStore) WithTx(*sql.Tx) store.AccountStore {
	return m
}
