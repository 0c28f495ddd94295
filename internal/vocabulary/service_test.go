package vocabulary_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/domain/srs"
	"github.com/phrazzld/essaylab-api/internal/flashcard"
	"github.com/phrazzld/essaylab-api/internal/generation"
	"github.com/phrazzld/essaylab-api/internal/mocks"
	"github.com/phrazzld/essaylab-api/internal/store"
	"github.com/phrazzld/essaylab-api/internal/vocabulary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	sqlMock    sqlmock.Sqlmock
	generator  *mocks.MockGenerator
	vocabulary *mocks.MockVocabularyStore
	cards      *mocks.MockFlashcardStore
	svc        vocabulary.Service
}

func newFixture(t *testing.T, entries ...generation.VocabularyEntry) *fixture {
	t.Helper()
	db, sm, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, sm.ExpectationsWereMet())
		_ = db.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		sqlMock:    sm,
		generator:  mocks.NewMockGenerator(entries...),
		vocabulary: mocks.NewMockVocabularyStore(),
		cards:      mocks.NewMockFlashcardStore(),
	}
	cardsSvc := flashcard.NewService(db, f.cards, f.vocabulary, srs.NewDefaultService(), logger)
	f.svc = vocabulary.NewService(db, f.generator, f.vocabulary, cardsSvc, logger)
	return f
}

func TestGenerateForEssay(t *testing.T) {
	t.Parallel()

	f := newFixture(t,
		generation.VocabularyEntry{Word: "<b>ephemeral</b>", Definition: "lasting a <i>short</i> time", Example: "Fame &amp; fortune are ephemeral."},
		generation.VocabularyEntry{Word: "Ephemeral", Definition: "duplicate in another case"},
		generation.VocabularyEntry{Word: "<script>alert(1)</script>", Definition: "stripped to nothing"},
		generation.VocabularyEntry{Word: "laconic", Definition: "using   very few\nwords"},
	)
	user, essay := uuid.New(), uuid.New()

	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectCommit()
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectCommit()

	res, err := f.svc.GenerateForEssay(context.Background(), user, essay, "An essay about fame.")
	require.NoError(t, err)

	require.Len(t, res.Vocabulary, 2)
	assert.Equal(t, "ephemeral", res.Vocabulary[0].Word)
	assert.Equal(t, "lasting a short time", res.Vocabulary[0].Definition)
	assert.Equal(t, "Fame & fortune are ephemeral.", res.Vocabulary[0].Example)
	assert.Equal(t, "laconic", res.Vocabulary[1].Word)
	assert.Equal(t, "using very few words", res.Vocabulary[1].Definition)

	assert.Len(t, res.Flashcards, 2)
	for _, c := range res.Flashcards {
		assert.Equal(t, user, c.UserID)
		assert.Equal(t, essay, c.EssayID)
	}
}

func TestGenerateForEssay_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		essayID uuid.UUID
		text    string
	}{
		{"nil essay", uuid.Nil, "text"},
		{"blank text", uuid.New(), "  \n "},
		{"text too long", uuid.New(), strings.Repeat("a", vocabulary.MaxEssayLength+1)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			_, err := f.svc.GenerateForEssay(context.Background(), uuid.New(), tc.essayID, tc.text)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Zero(t, f.generator.Calls)
		})
	}
}

func TestGenerateForEssay_GeneratorFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.generator.GenerateVocabularyFn = func(context.Context, string) ([]generation.VocabularyEntry, error) {
		return nil, generation.ErrContentBlocked
	}

	_, err := f.svc.GenerateForEssay(context.Background(), uuid.New(), uuid.New(), "essay")
	assert.ErrorIs(t, err, generation.ErrContentBlocked)
}

func TestGenerateForEssay_NothingUsable(t *testing.T) {
	t.Parallel()

	f := newFixture(t, generation.VocabularyEntry{Word: "<img src=x>", Definition: "gone"})

	_, err := f.svc.GenerateForEssay(context.Background(), uuid.New(), uuid.New(), "essay")
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)
}

func TestGenerateForEssay_StoreFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, generation.VocabularyEntry{Word: "terse", Definition: "brief"})
	f.vocabulary.CreateMultipleFn = func(context.Context, []*domain.VocabularyItem) error {
		return store.ErrUnavailable
	}
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()

	_, err := f.svc.GenerateForEssay(context.Background(), uuid.New(), uuid.New(), "essay")
	assert.ErrorIs(t, err, store.ErrUnavailable)
}
