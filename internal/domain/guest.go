package domain

import (
	"regexp"
	"time"
)

// MaxFingerprintLength bounds the client-supplied device fingerprint.
const MaxFingerprintLength = 128

var fingerprintPattern = regexp.MustCompile(`^[A-Za-z0-9_:\-]+$`)

// GuestTrial records that an anonymous device has used its single free essay.
type GuestTrial struct {
	Fingerprint string    `json:"fingerprint"`
	EssayID     string    `json:"essay_id"`
	UsedAt      time.Time `json:"used_at"`
}

// ValidateFingerprint rejects empty, oversized or non-token fingerprints.
func ValidateFingerprint(fp string) error {
	if fp == "" {
		return NewValidationError("fingerprint", "is required", ErrInvalidFingerprint)
	}
	if len(fp) > MaxFingerprintLength {
		return NewValidationError("fingerprint", "is too long", ErrInvalidFingerprint)
	}
	if !fingerprintPattern.MatchString(fp) {
		return NewValidationError("fingerprint", "contains invalid characters", ErrInvalidFingerprint)
	}
	return nil
}
