package store

import (
	"context"
	"database/sql"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/domain"
)

// FlashcardStore defines the interface for flashcard data persistence.
type FlashcardStore interface {
	// GetByID retrieves a flashcard by its unique ID.
	// Returns ErrFlashcardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)

	// GetForUpdate retrieves a flashcard and locks its row for the rest of the
	// transaction, serializing concurrent grading of the same card.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)

	// UpdateSchedule persists the scheduling fields of card.
	// Returns ErrFlashcardNotFound if the card does not exist.
	UpdateSchedule(ctx context.Context, card *domain.Flashcard) error

	// CreateMultiple inserts cards, skipping any whose vocabulary item already
	// has a card. It returns how many rows were inserted.
	CreateMultiple(ctx context.Context, cards []*domain.Flashcard) (int, error)

	// ListByEssay returns the user's cards for an essay, oldest first.
	ListByEssay(ctx context.Context, userID, essayID uuid.UUID) ([]*domain.Flashcard, error)

	// ListDue returns up to limit cards with next_review_date <= today,
	// earliest due first.
	ListDue(ctx context.Context, userID uuid.UUID, today civil.Date, limit int) ([]*domain.Flashcard, error)

	// WithTx returns a new store instance that uses the provided transaction.
	WithTx(tx *sql.Tx) FlashcardStore
}

// VocabularyStore defines persistence for vocabulary items extracted from essays.
type VocabularyStore interface {
	// CreateMultiple saves items in one statement batch.
	CreateMultiple(ctx context.Context, items []*domain.VocabularyItem) error

	// ListByEssay returns the user's vocabulary items for an essay.
	ListByEssay(ctx context.Context, userID, essayID uuid.UUID) ([]*domain.VocabularyItem, error)

	// WithTx returns a new store instance that uses the provided transaction.
	WithTx(tx *sql.Tx) VocabularyStore
}
