package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/store"
)

// MockFlashcardStore implements store.FlashcardStore over an in-memory map.
type MockFlashcardStore struct {
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)
	GetForUpdateFn   func(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)
	UpdateScheduleFn func(ctx context.Context, card *domain.Flashcard) error
	CreateMultipleFn func(ctx context.Context, cards []*domain.Flashcard) (int, error)

	mu    sync.Mutex
	cards map[uuid.UUID]*domain.Flashcard

	UpdateScheduleCalls int
}

var _ store.FlashcardStore = (*MockFlashcardStore)(nil)

// NewMockFlashcardStore creates an empty MockFlashcardStore.
func NewMockFlashcardStore() *MockFlashcardStore {
	return &MockFlashcardStore{cards: make(map[uuid.UUID]*domain.Flashcard)}
}

// Put stores a copy of card.
func (m *MockFlashcardStore) Put(card *domain.Flashcard) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *card
	m.cards[card.ID] = &cp
}

// Card returns a copy of the stored card, or nil.
func (m *MockFlashcardStore) Card(id uuid.UUID) *domain.Flashcard {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok {
		return nil
	}
	cp := *c
	return &cp
}

// GetByID implements store.FlashcardStore.
func (m *MockFlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if c := m.Card(id); c != nil {
		return c, nil
	}
	return nil, store.ErrFlashcardNotFound
}

// GetForUpdate implements store.FlashcardStore.
func (m *MockFlashcardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, id)
	}
	return m.GetByID(ctx, id)
}

// UpdateSchedule implements store.FlashcardStore.
func (m *MockFlashcardStore) UpdateSchedule(ctx context.Context, card *domain.Flashcard) error {
	m.mu.Lock()
	m.UpdateScheduleCalls++
	m.mu.Unlock()
	if m.UpdateScheduleFn != nil {
		return m.UpdateScheduleFn(ctx, card)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[card.ID]
	if !ok {
		return store.ErrFlashcardNotFound
	}
	c.EaseFactor = card.EaseFactor
	c.IntervalDays = card.IntervalDays
	c.RepetitionCount = card.RepetitionCount
	c.NextReviewDate = card.NextReviewDate
	c.UpdatedAt = card.UpdatedAt
	return nil
}

// CreateMultiple implements store.FlashcardStore. Cards for a vocabulary
// item that already has one are skipped.
func (m *MockFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) (int, error) {
	if m.CreateMultipleFn != nil {
		return m.CreateMultipleFn(ctx, cards)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	created := 0
	for _, card := range cards {
		if m.hasVocabularyItem(card.VocabularyItemID) {
			continue
		}
		cp := *card
		m.cards[card.ID] = &cp
		created++
	}
	return created, nil
}

func (m *MockFlashcardStore) hasVocabularyItem(id uuid.UUID) bool {
	for _, c := range m.cards {
		if c.VocabularyItemID == id {
			return true
		}
	}
	return false
}

// ListByEssay implements store.FlashcardStore.
func (m *MockFlashcardStore) ListByEssay(_ context.Context, userID, essayID uuid.UUID) ([]*domain.Flashcard, error) {
	return m.filter(func(c *domain.Flashcard) bool {
		return c.UserID == userID && c.EssayID == essayID
	}, 0), nil
}

// ListDue implements store.FlashcardStore.
func (m *MockFlashcardStore) ListDue(
	_ context.Context,
	userID uuid.UUID,
	today civil.Date,
	limit int,
) ([]*domain.Flashcard, error) {
	if limit <= 0 {
		return nil, store.ErrInvalidEntity
	}
	return m.filter(func(c *domain.Flashcard) bool {
		return c.UserID == userID && c.IsDue(today)
	}, limit), nil
}

func (m *MockFlashcardStore) filter(keep func(*domain.Flashcard) bool, limit int) []*domain.Flashcard {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Flashcard, 0)
	for _, c := range m.cards {
		if keep(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NextReviewDate != out[j].NextReviewDate {
			return out[i].NextReviewDate.Before(out[j].NextReviewDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// WithTx returns the receiver.
func (m *MockFlashcardStore) WithTx(*sql.Tx) store.FlashcardStore {
	return m
}

// MockVocabularyStore implements store.VocabularyStore in memory.
type MockVocabularyStore struct {
	CreateMultipleFn func(ctx context.Context, items []*domain.VocabularyItem) error

	mu    sync.Mutex
	items []*domain.VocabularyItem
}

var _ store.VocabularyStore = (*MockVocabularyStore)(nil)

// NewMockVocabularyStore creates an empty MockVocabularyStore.
func NewMockVocabularyStore() *MockVocabularyStore {
	return &MockVocabularyStore{}
}

// CreateMultiple implements store.VocabularyStore.
func (m *MockVocabularyStore) CreateMultiple(ctx context.Context, items []*domain.VocabularyItem) error {
	if m.CreateMultipleFn != nil {
		return m.CreateMultipleFn(ctx, items)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range items {
		cp := *item
		m.items = append(m.items, &cp)
	}
	return nil
}

// ListByEssay implements store.VocabularyStore.
func (m *MockVocabularyStore) ListByEssay(_ context.Context, userID, essayID uuid.UUID) ([]*domain.VocabularyItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.VocabularyItem, 0)
	for _, item := range m.items {
		if item.UserID == userID && item.EssayID == essayID {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

// WithTx returns the receiver.
func (m *MockVocabularyStore) WithTx(*sql.Tx) store.VocabularyStore {
	return m
}
