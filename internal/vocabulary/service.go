// Package vocabulary turns essay text into stored vocabulary items and the
// flashcards that drill them.
package vocabulary

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/events"
	"github.com/phrazzld/essaylab-api/internal/flashcard"
	"github.com/phrazzld/essaylab-api/internal/generation"
	"github.com/phrazzld/essaylab-api/internal/platform/logger"
	"github.com/phrazzld/essaylab-api/internal/store"
)

// MaxEssayLength bounds the text sent to the model, in runes.
const MaxEssayLength = 20000

// Result is the outcome of a generation run.
type Result struct {
	Vocabulary []*domain.VocabularyItem `json:"vocabulary"`
	Flashcards []*domain.Flashcard      `json:"flashcards"`
}

// Service generates vocabulary for essays.
type Service interface {
	// GenerateForEssay asks the generator for vocabulary, stores the
	// sanitized items and makes sure each has a flashcard.
	GenerateForEssay(ctx context.Context, userID, essayID uuid.UUID, essayText string) (*Result, error)
}

// Option configures the service.
type Option func(*service)

// WithEmitter publishes vocabulary events.
func WithEmitter(e events.EventEmitter) Option {
	return func(s *service) { s.emitter = e }
}

type service struct {
	db         *sql.DB
	generator  generation.Generator
	vocabulary store.VocabularyStore
	flashcards flashcard.Service
	sanitizer  *sanitizer
	emitter    events.EventEmitter
	logger     *slog.Logger
}

// NewService creates the vocabulary service.
func NewService(
	db *sql.DB,
	generator generation.Generator,
	vocabulary store.VocabularyStore,
	flashcards flashcard.Service,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if db == nil {
		panic("db cannot be nil")
	}
	if generator == nil {
		panic("generator cannot be nil")
	}
	if vocabulary == nil {
		panic("vocabulary cannot be nil")
	}
	if flashcards == nil {
		panic("flashcards cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &service{
		db:         db,
		generator:  generator,
		vocabulary: vocabulary,
		flashcards: flashcards,
		sanitizer:  newSanitizer(),
		logger:     logger.With(slog.String("component", "vocabulary_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateForEssay implements Service.GenerateForEssay.
func (s *service) GenerateForEssay(
	ctx context.Context,
	userID, essayID uuid.UUID,
	essayText string,
) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if essayID == uuid.Nil {
		return nil, domain.NewValidationError("essayId", "cannot be empty", domain.ErrInvalidID)
	}
	essayText = strings.TrimSpace(essayText)
	if essayText == "" {
		return nil, domain.NewValidationError("text", "cannot be empty", domain.ErrEmptyContent)
	}
	if utf8.RuneCountInString(essayText) > MaxEssayLength {
		return nil, domain.NewValidationError("text",
			fmt.Sprintf("cannot exceed %d characters", MaxEssayLength), domain.ErrValidation)
	}

	entries, err := s.generator.GenerateVocabulary(ctx, essayText)
	if err != nil {
		log.Error("vocabulary generation failed",
			slog.String("error", err.Error()),
			slog.String("essay_id", essayID.String()))
		return nil, fmt.Errorf("failed to generate vocabulary: %w", err)
	}

	items := s.buildItems(userID, essayID, entries)
	if len(items) == 0 {
		log.Warn("generator returned no usable vocabulary",
			slog.String("essay_id", essayID.String()),
			slog.Int("raw_entries", len(entries)))
		return nil, fmt.Errorf("%w: no usable vocabulary entries", generation.ErrInvalidResponse)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.vocabulary.WithTx(tx).CreateMultiple(ctx, items)
	})
	if err != nil {
		log.Error("failed to save vocabulary",
			slog.String("error", err.Error()),
			slog.String("essay_id", essayID.String()))
		return nil, fmt.Errorf("failed to save vocabulary: %w", err)
	}
	events.Emit(ctx, s.emitter, s.logger, events.TypeVocabularyCreated, userID,
		events.CountPayload{Count: len(items)})

	cards, err := s.flashcards.CreateForEssay(ctx, userID, essayID)
	if err != nil {
		return nil, err
	}

	log.Info("vocabulary generated",
		slog.String("essay_id", essayID.String()),
		slog.Int("items", len(items)),
		slog.Int("flashcards", len(cards)))
	return &Result{Vocabulary: items, Flashcards: cards}, nil
}

// buildItems sanitizes entries and drops blanks and case-insensitive
// duplicates.
func (s *service) buildItems(
	userID, essayID uuid.UUID,
	entries []generation.VocabularyEntry,
) []*domain.VocabularyItem {
	seen := make(map[string]struct{}, len(entries))
	items := make([]*domain.VocabularyItem, 0, len(entries))
	for _, e := range entries {
		word := s.sanitizer.clean(e.Word)
		key := strings.ToLower(word)
		if _, dup := seen[key]; dup {
			continue
		}

		item, err := domain.NewVocabularyItem(userID, essayID,
			word, s.sanitizer.clean(e.Definition), s.sanitizer.clean(e.Example))
		if err != nil {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, item)
	}
	return items
}
