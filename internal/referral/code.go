package referral

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"unicode"
)

// CodeLength is the length of every invite code.
const CodeLength = 8

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var codePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

// GenerateCode returns a random invite code drawn uniformly from [A-Z0-9].
func GenerateCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// Normalize strips all whitespace and upper-cases code.
func Normalize(code string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, code))
}

// IsValidFormat reports whether code is a well-formed invite code once normalized.
func IsValidFormat(code string) bool {
	return codePattern.MatchString(Normalize(code))
}

// MaskEmail keeps the first three characters of the local part and the
// domain: "alexander@example.com" becomes "ale***@example.com".
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return "***"
	}
	local, domain := email[:at], email[at+1:]
	if r := []rune(local); len(r) > 3 {
		local = string(r[:3])
	}
	return local + "***@" + domain
}
