// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Error categories. Specific errors wrap one of these so the API layer can map
// whole families with a single errors.Is check.
var (
	// ErrValidation is returned when input or a domain entity fails validation.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an operation collides with existing state.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// Validation errors.
var (
	ErrInvalidID          = fmt.Errorf("%w: invalid ID", ErrValidation)
	ErrInvalidEmail       = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrInvalidQuality     = fmt.Errorf("%w: quality must be an integer between 0 and 5", ErrValidation)
	ErrInvalidInviteCode  = fmt.Errorf("%w: invalid invite code format", ErrValidation)
	ErrInvalidPromoCode   = fmt.Errorf("%w: invalid promo code", ErrValidation)
	ErrInvalidFingerprint = fmt.Errorf("%w: invalid fingerprint", ErrValidation)
	ErrSelfRedemption     = fmt.Errorf("%w: cannot redeem your own invite code", ErrValidation)
	ErrEmptyContent       = fmt.Errorf("%w: content cannot be empty", ErrValidation)
	ErrInvalidSchedule    = fmt.Errorf("%w: invalid review schedule", ErrValidation)
)

// Not found errors that are not tied to a single store row.
var (
	ErrUnknownPromoCode  = fmt.Errorf("%w: promo code", ErrNotFound)
	ErrUnknownInviteCode = fmt.Errorf("%w: invite code", ErrNotFound)
)

// Conflict errors.
var (
	// ErrAlreadyRedeemed means the (code, redeemer) pair was claimed before.
	ErrAlreadyRedeemed = fmt.Errorf("%w: code already redeemed", ErrConflict)

	// ErrGuestTrialUsed means the fingerprint already consumed its free trial.
	ErrGuestTrialUsed = fmt.Errorf("%w: guest trial already used", ErrConflict)
)

// ErrQuotaExceeded is returned when an account has no remaining daily or total allowance.
var ErrQuotaExceeded = errors.New("quota exceeded")

// ErrFlashcardNotOwned is returned when a user acts on another user's flashcard.
var ErrFlashcardNotOwned = fmt.Errorf("%w: flashcard is owned by another user", ErrUnauthorized)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error, defaulting to ErrValidation.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}
