package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when vocabulary generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate vocabulary from text")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during vocabulary generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyText is returned when there is no essay text to work from.
	ErrEmptyText = errors.New("essay text cannot be empty")
)
