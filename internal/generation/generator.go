package generation

import "context"

// Generator extracts vocabulary worth studying from an essay.
type Generator interface {
	// GenerateVocabulary returns the entries chosen from essayText. The
	// entries have passed ParseVocabularyResponse validation but are not yet
	// sanitized or bound to a user.
	GenerateVocabulary(ctx context.Context, essayText string) ([]VocabularyEntry, error)
}
