package vocabulary

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// sanitizer strips all markup from model output. Items are stored as plain
// text, so the entities bluemonday escapes are decoded again afterwards.
type sanitizer struct {
	policy *bluemonday.Policy
}

func newSanitizer() *sanitizer {
	return &sanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *sanitizer) clean(input string) string {
	out := html.UnescapeString(s.policy.Sanitize(input))
	return strings.Join(strings.Fields(out), " ")
}
