package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/essaylab-api/internal/generation"
)

// MockGenerator implements generation.Generator with a canned result.
type MockGenerator struct {
	GenerateVocabularyFn func(ctx context.Context, essayText string) ([]generation.VocabularyEntry, error)

	mu    sync.Mutex
	Calls int
}

var _ generation.Generator = (*MockGenerator)(nil)

// NewMockGenerator returns a MockGenerator that always yields entries.
func NewMockGenerator(entries ...generation.VocabularyEntry) *MockGenerator {
	return &MockGenerator{
		GenerateVocabularyFn: func(context.Context, string) ([]generation.VocabularyEntry, error) {
			return entries, nil
		},
	}
}

// GenerateVocabulary implements generation.Generator.
func (m *MockGenerator) GenerateVocabulary(ctx context.Context, essayText string) ([]generation.VocabularyEntry, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.GenerateVocabularyFn != nil {
		return m.GenerateVocabularyFn(ctx, essayText)
	}
	return nil, generation.ErrGenerationFailed
}
