package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/store"
)

// MockInviteCodeStore implements store.InviteCodeStore over an in-memory map.
type MockInviteCodeStore struct {
	CreateFn     func(ctx context.Context, code *domain.InviteCode) error
	GetByCodeFn  func(ctx context.Context, code string) (*domain.InviteCode, error)
	GetByOwnerFn func(ctx context.Context, ownerID uuid.UUID) (*domain.InviteCode, error)

	mu    sync.Mutex
	codes map[string]*domain.InviteCode

	CreateCalls int
}

var _ store.InviteCodeStore = (*MockInviteCodeStore)(nil)

// NewMockInviteCodeStore creates an empty MockInviteCodeStore.
func NewMockInviteCodeStore() *MockInviteCodeStore {
	return &MockInviteCodeStore{codes: make(map[string]*domain.InviteCode)}
}

// Create implements store.InviteCodeStore.
func (m *MockInviteCodeStore) Create(ctx context.Context, code *domain.InviteCode) error {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()
	if m.CreateFn != nil {
		return m.CreateFn(ctx, code)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.codes {
		if c.OwnerID == code.OwnerID {
			return store.ErrOwnerHasInviteCode
		}
	}
	if _, ok := m.codes[code.Code]; ok {
		return store.ErrInviteCodeTaken
	}
	cp := *code
	m.codes[code.Code] = &cp
	return nil
}

// GetByCode implements store.InviteCodeStore.
func (m *MockInviteCodeStore) GetByCode(ctx context.Context, code string) (*domain.InviteCode, error) {
	if m.GetByCodeFn != nil {
		return m.GetByCodeFn(ctx, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.codes[code]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, store.ErrInviteCodeNotFound
}

// GetByOwner implements store.InviteCodeStore.
func (m *MockInviteCodeStore) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.InviteCode, error) {
	if m.GetByOwnerFn != nil {
		return m.GetByOwnerFn(ctx, ownerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.codes {
		if c.OwnerID == ownerID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, store.ErrInviteCodeNotFound
}

// WithTx returns the receiver.
func (m *MockInviteCodeStore) WithTx(*sql.Tx) store.InviteCodeStore {
	return m
}

// MockRedemptionStore implements store.RedemptionStore over an in-memory set.
type MockRedemptionStore struct {
	ClaimFn func(ctx context.Context, r *domain.Redemption) (bool, error)

	mu      sync.Mutex
	claimed map[string]*domain.Redemption
}

var _ store.RedemptionStore = (*MockRedemptionStore)(nil)

// NewMockRedemptionStore creates an empty MockRedemptionStore.
func NewMockRedemptionStore() *MockRedemptionStore {
	return &MockRedemptionStore{claimed: make(map[string]*domain.Redemption)}
}

// Claim implements store.RedemptionStore.
func (m *MockRedemptionStore) Claim(ctx context.Context, r *domain.Redemption) (bool, error) {
	if m.ClaimFn != nil {
		return m.ClaimFn(ctx, r)
	}
	key := string(r.Kind) + "|" + r.Code + "|" + r.RedeemerID.String()

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.claimed[key]; ok {
		return false, nil
	}
	cp := *r
	m.claimed[key] = &cp
	return true, nil
}

// Count reports how many redemptions have been claimed.
func (m *MockRedemptionStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.claimed)
}

// WithTx returns the receiver.
func (m *MockRedemptionStore) WithTx(*sql.Tx) store.RedemptionStore {
	return m
}
