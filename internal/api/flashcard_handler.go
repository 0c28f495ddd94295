package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/api/shared"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/flashcard"
	"github.com/phrazzld/essaylab-api/internal/platform/logger"
)

// FlashcardHandler serves flashcard creation, review and grading.
type FlashcardHandler struct {
	flashcards flashcard.Service
	logger     *slog.Logger
}

// NewFlashcardHandler creates a FlashcardHandler.
func NewFlashcardHandler(flashcards flashcard.Service, logger *slog.Logger) *FlashcardHandler {
	if flashcards == nil {
		panic("flashcards cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FlashcardHandler{
		flashcards: flashcards,
		logger:     logger.With(slog.String("component", "flashcard_handler")),
	}
}

// Grade handles POST /api/flashcards/{id}/grade.
func (h *FlashcardHandler) Grade(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req GradeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.flashcards.Grade(r.Context(), userID, cardID, *req.Quality)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to grade flashcard")
		return
	}

	log.Debug("flashcard graded",
		slog.String("flashcard_id", cardID.String()),
		slog.Int("quality", *req.Quality),
		slog.Int("interval_days", card.IntervalDays))
	shared.RespondWithJSON(w, r, http.StatusOK, scheduleResponse(card))
}

// CreateForEssay handles POST /api/flashcards.
func (h *FlashcardHandler) CreateForEssay(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req CreateFlashcardsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	essayID, err := uuid.Parse(req.EssayID)
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("essayId", "must be a valid UUID", domain.ErrInvalidID), "")
		return
	}

	cards, err := h.flashcards.CreateForEssay(r.Context(), userID, essayID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create flashcards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, flashcardList(cards))
}

// ListDue handles GET /api/flashcards/due?limit=N.
func (h *FlashcardHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	limit, err := parseLimit(r, flashcard.DefaultDueLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cards, err := h.flashcards.ListDue(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list due flashcards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, flashcardList(cards))
}
