package guest

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// FallbackPrefix marks fingerprints derived from browser attributes rather
// than a fingerprinting library.
const FallbackPrefix = "fb_"

// Attributes are the browser properties hashed when no library fingerprint
// is available.
type Attributes struct {
	UserAgent      string `json:"userAgent"`
	Language       string `json:"language"`
	ScreenWidth    int    `json:"screenWidth"`
	ScreenHeight   int    `json:"screenHeight"`
	ColorDepth     int    `json:"colorDepth"`
	TimezoneOffset int    `json:"timezoneOffset"`
}

// FallbackFingerprint reproduces the browser-side fallback: a wrapping
// 32-bit h*31+c hash over the UTF-16 code units of the "|"-joined
// attributes, made non-negative and rendered in base 36.
func FallbackFingerprint(a Attributes) string {
	joined := strings.Join([]string{
		a.UserAgent,
		a.Language,
		strconv.Itoa(a.ScreenWidth),
		strconv.Itoa(a.ScreenHeight),
		strconv.Itoa(a.ColorDepth),
		strconv.Itoa(a.TimezoneOffset),
	}, "|")

	var h int32
	for _, unit := range utf16.Encode([]rune(joined)) {
		h = h*31 + int32(unit)
	}

	// Widen before negating so math.MinInt32 does not overflow.
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return FallbackPrefix + strconv.FormatInt(v, 36)
}
