package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/essaylab-api/internal/api/shared"
	"github.com/phrazzld/essaylab-api/internal/platform/logger"
	"github.com/phrazzld/essaylab-api/internal/vocabulary"
)

// VocabularyHandler serves vocabulary generation for essays.
type VocabularyHandler struct {
	vocabulary vocabulary.Service
	logger     *slog.Logger
}

// NewVocabularyHandler creates a VocabularyHandler.
func NewVocabularyHandler(vocab vocabulary.Service, logger *slog.Logger) *VocabularyHandler {
	if vocab == nil {
		panic("vocabulary service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &VocabularyHandler{
		vocabulary: vocab,
		logger:     logger.With(slog.String("component", "vocabulary_handler")),
	}
}

// Generate handles POST /api/essays/{id}/vocabulary.
func (h *VocabularyHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	essayID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req GenerateVocabularyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.vocabulary.GenerateForEssay(r.Context(), userID, essayID, req.Text)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate vocabulary")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("vocabulary generated",
		slog.String("essay_id", essayID.String()),
		slog.Int("words", len(result.Vocabulary)),
		slog.Int("flashcards", len(result.Flashcards)))
	shared.RespondWithJSON(w, r, http.StatusOK, VocabularyResponse{
		Vocabulary: result.Vocabulary,
		Flashcards: result.Flashcards,
	})
}
