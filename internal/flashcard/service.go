// Package flashcard schedules vocabulary review. It turns an essay's
// vocabulary into cards, grades reviews with SM-2 and lists what is due.
package flashcard

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/domain/srs"
	"github.com/phrazzld/essaylab-api/internal/events"
	"github.com/phrazzld/essaylab-api/internal/platform/logger"
	"github.com/phrazzld/essaylab-api/internal/store"
)

// Due list bounds.
const (
	DefaultDueLimit = 20
	MaxDueLimit     = 100
)

// Service provides flashcard review operations.
type Service interface {
	// Grade applies a review of quality 0-5 to the card and persists the new
	// schedule. Quality is checked before anything is read or written.
	//
	// Returns domain.ErrInvalidQuality, store.ErrFlashcardNotFound or
	// domain.ErrFlashcardNotOwned for the expected failures.
	Grade(ctx context.Context, userID, cardID uuid.UUID, quality int) (*domain.Flashcard, error)

	// CreateForEssay creates one card per vocabulary item of the essay.
	// Items that already have a card are skipped, so repeated calls are
	// harmless. It returns every card the essay now has.
	CreateForEssay(ctx context.Context, userID, essayID uuid.UUID) ([]*domain.Flashcard, error)

	// ListDue returns up to limit cards due today or earlier, earliest first.
	// A non-positive limit means DefaultDueLimit.
	ListDue(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Flashcard, error)
}

// Option configures the service.
type Option func(*service)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithLocation sets the timezone used to decide what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *service) { s.loc = loc }
}

// WithEmitter publishes flashcard events.
func WithEmitter(e events.EventEmitter) Option {
	return func(s *service) { s.emitter = e }
}

type service struct {
	db         *sql.DB
	cards      store.FlashcardStore
	vocabulary store.VocabularyStore
	scheduler  srs.Service
	emitter    events.EventEmitter
	now        func() time.Time
	loc        *time.Location
	logger     *slog.Logger
}

var _ Service = (*service)(nil)

// NewService creates the flashcard service.
func NewService(
	db *sql.DB,
	cards store.FlashcardStore,
	vocabulary store.VocabularyStore,
	scheduler srs.Service,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if db == nil {
		panic("db cannot be nil")
	}
	if cards == nil {
		panic("cards cannot be nil")
	}
	if vocabulary == nil {
		panic("vocabulary cannot be nil")
	}
	if scheduler == nil {
		scheduler = srs.NewDefaultService()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &service{
		db:         db,
		cards:      cards,
		vocabulary: vocabulary,
		scheduler:  scheduler,
		now:        time.Now,
		loc:        time.UTC,
		logger:     logger.With(slog.String("component", "flashcard_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) today() civil.Date {
	return domain.DateIn(s.now(), s.loc)
}

// Grade implements Service.Grade.
func (s *service) Grade(
	ctx context.Context,
	userID, cardID uuid.UUID,
	quality int,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !srs.IsValidQuality(quality) {
		log.Warn("invalid review quality",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.Int("quality", quality))
		return nil, domain.ErrInvalidQuality
	}

	today := s.today()
	var graded *domain.Flashcard
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cards.WithTx(tx)

		card, err := cards.GetForUpdate(ctx, cardID)
		if err != nil {
			return err
		}
		if card.UserID != userID {
			log.Warn("user does not own flashcard",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()),
				slog.String("owner_id", card.UserID.String()))
			return domain.ErrFlashcardNotOwned
		}

		next, err := s.scheduler.CalculateNextReview(card, quality, today)
		if err != nil {
			return err
		}
		next.UpdatedAt = s.now().UTC()

		if err := cards.UpdateSchedule(ctx, next); err != nil {
			return err
		}
		graded = next
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrFlashcardNotFound) ||
			errors.Is(err, domain.ErrFlashcardNotOwned) ||
			errors.Is(err, domain.ErrInvalidQuality) {
			return nil, err
		}
		log.Error("failed to grade flashcard",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, newGradeError("failed to grade flashcard", err)
	}

	log.Debug("flashcard graded",
		slog.String("card_id", cardID.String()),
		slog.Int("quality", quality),
		slog.Int("interval_days", graded.IntervalDays),
		slog.String("next_review_date", graded.NextReviewDate.String()))
	events.Emit(ctx, s.emitter, s.logger, events.TypeFlashcardGraded, userID, nil)
	return graded, nil
}

// CreateForEssay implements Service.CreateForEssay.
func (s *service) CreateForEssay(
	ctx context.Context,
	userID, essayID uuid.UUID,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if essayID == uuid.Nil {
		return nil, domain.NewValidationError("essayId", "cannot be empty", domain.ErrInvalidID)
	}

	today := s.today()
	var (
		created int
		all     []*domain.Flashcard
	)
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cards.WithTx(tx)

		items, err := s.vocabulary.WithTx(tx).ListByEssay(ctx, userID, essayID)
		if err != nil {
			return err
		}

		batch := make([]*domain.Flashcard, 0, len(items))
		for _, item := range items {
			card, err := domain.NewFlashcard(userID, essayID, item.ID, today)
			if err != nil {
				return err
			}
			batch = append(batch, card)
		}

		if len(batch) > 0 {
			created, err = cards.CreateMultiple(ctx, batch)
			if err != nil {
				return err
			}
		}

		all, err = cards.ListByEssay(ctx, userID, essayID)
		return err
	})
	if err != nil {
		log.Error("failed to create flashcards",
			slog.String("error", err.Error()),
			slog.String("essay_id", essayID.String()))
		return nil, newCreateError("failed to create flashcards", err)
	}

	log.Info("flashcards created for essay",
		slog.String("essay_id", essayID.String()),
		slog.Int("created", created),
		slog.Int("total", len(all)))
	if created > 0 {
		events.Emit(ctx, s.emitter, s.logger, events.TypeFlashcardsCreated, userID,
			events.CountPayload{Count: created})
	}
	return all, nil
}

// ListDue implements Service.ListDue.
func (s *service) ListDue(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	switch {
	case limit <= 0:
		limit = DefaultDueLimit
	case limit > MaxDueLimit:
		limit = MaxDueLimit
	}

	cards, err := s.cards.ListDue(ctx, userID, s.today(), limit)
	if err != nil {
		log.Error("failed to list due flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, newListDueError("failed to list due flashcards", err)
	}
	return cards, nil
}
