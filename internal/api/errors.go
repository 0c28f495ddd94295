package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/essaylab-api/internal/api/shared"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/generation"
	"github.com/phrazzld/essaylab-api/internal/referral"
	"github.com/phrazzld/essaylab-api/internal/service/auth"
	"github.com/phrazzld/essaylab-api/internal/store"
)

// MapErrorToStatusCode maps service and store errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	var verrs validator.ValidationErrors

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidSubject),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusTooManyRequests

	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, generation.ErrEmptyText),
		errors.As(err, &verrs):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	case errors.Is(err, generation.ErrInvalidResponse):
		return http.StatusBadGateway

	case errors.Is(err, store.ErrUnavailable),
		errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, referral.ErrCodeGenerationExhausted):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err. Internal
// details never reach the response.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var (
		verr  *domain.ValidationError
		verrs validator.ValidationErrors
	)

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidSubject),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, domain.ErrQuotaExceeded):
		return "Essay quota exceeded"
	case errors.Is(err, domain.ErrFlashcardNotOwned):
		return "You do not own this flashcard"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Operation not permitted"

	case errors.Is(err, domain.ErrSelfRedemption):
		return "You cannot redeem your own invite code"
	case errors.Is(err, domain.ErrInvalidQuality):
		return "Quality must be an integer between 0 and 5"
	case errors.As(err, &verr):
		return verr.Error()
	case errors.As(err, &verrs):
		return SanitizeValidationError(verrs)
	case errors.Is(err, generation.ErrEmptyText):
		return "Essay text cannot be empty"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	case errors.Is(err, store.ErrAccountNotFound):
		return "Account not found"
	case errors.Is(err, store.ErrFlashcardNotFound):
		return "Flashcard not found"
	case errors.Is(err, domain.ErrUnknownPromoCode):
		return "Promo code not found"
	case errors.Is(err, domain.ErrUnknownInviteCode),
		errors.Is(err, store.ErrInviteCodeNotFound):
		return "Invite code not found"
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, domain.ErrAlreadyRedeemed):
		return "Code already redeemed"
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, generation.ErrContentBlocked):
		return "Essay content could not be processed"
	case errors.Is(err, generation.ErrInvalidResponse):
		return "Vocabulary generation returned an unusable response"
	case errors.Is(err, generation.ErrTransientFailure):
		return "Vocabulary generation is temporarily unavailable"
	case errors.Is(err, store.ErrUnavailable),
		errors.Is(err, referral.ErrCodeGenerationExhausted):
		return "Service temporarily unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError describes the first failed field of a struct
// validation without echoing the submitted value.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}
	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte", "lte":
		return "out of range"
	case "uuid", "uuid4":
		return "invalid id"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the mapped status and safe message for err. For
// 500s, fallback replaces the generic message when non-empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
