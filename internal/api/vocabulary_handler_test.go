package api_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/api"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/generation"
	"github.com/phrazzld/essaylab-api/internal/mocks"
	"github.com/phrazzld/essaylab-api/internal/vocabulary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabularyHandlerGenerate(t *testing.T) {
	t.Parallel()

	essayID := uuid.New()
	target := "/api/essays/" + essayID.String() + "/vocabulary"
	const pattern = "/api/essays/{id}/vocabulary"

	tests := []struct {
		name       string
		body       string
		generate   func(context.Context, uuid.UUID, uuid.UUID, string) (*vocabulary.Result, error)
		wantStatus int
		wantError  string
	}{
		{
			name: "generated",
			body: `{"text":"The ubiquitous smartphone..."}`,
			generate: func(_ context.Context, userID, id uuid.UUID, _ string) (*vocabulary.Result, error) {
				item := &domain.VocabularyItem{ID: uuid.New(), EssayID: id, UserID: userID, Word: "ubiquitous"}
				card := &domain.Flashcard{ID: uuid.New(), VocabularyItemID: item.ID}
				return &vocabulary.Result{
					Vocabulary: []*domain.VocabularyItem{item},
					Flashcards: []*domain.Flashcard{card},
				}, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "empty text",
			body:       `{"text":""}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "blocked",
			body: `{"text":"..."}`,
			generate: func(context.Context, uuid.UUID, uuid.UUID, string) (*vocabulary.Result, error) {
				return nil, fmt.Errorf("gemini: %w", generation.ErrContentBlocked)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "Essay content could not be processed",
		},
		{
			name: "model unavailable",
			body: `{"text":"..."}`,
			generate: func(context.Context, uuid.UUID, uuid.UUID, string) (*vocabulary.Result, error) {
				return nil, generation.ErrTransientFailure
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := api.NewVocabularyHandler(&mocks.MockVocabularyService{GenerateForEssayFn: tc.generate}, discardLogger)
			rec := serve(t, http.MethodPost, pattern, target, tc.body, uuid.New(), h.Generate)
			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())

			if tc.wantError != "" {
				assert.Equal(t, tc.wantError, errorMessage(t, rec))
			}
			if tc.wantStatus == http.StatusOK {
				var body api.VocabularyResponse
				decodeBody(t, rec, &body)
				require.Len(t, body.Vocabulary, 1)
				assert.Equal(t, "ubiquitous", body.Vocabulary[0].Word)
				assert.Len(t, body.Flashcards, 1)
			}
		})
	}
}
