// Package tier maps an account's email address onto its plan.
package tier

import (
	"strings"

	"github.com/phrazzld/essaylab-api/internal/domain"
)

// Allowances per tier.
const (
	FreeDailyQuota    = 3
	FreeLifetimeQuota = 9
	PremiumDailyQuota = 5
)

// Limit is an allowance that may be unbounded.
type Limit struct {
	value     int
	unbounded bool
}

// Bounded returns a finite limit.
func Bounded(n int) Limit { return Limit{value: n} }

// Unbounded returns a limit with no ceiling.
func Unbounded() Limit { return Limit{unbounded: true} }

// IsUnbounded reports whether the limit has no ceiling.
func (l Limit) IsUnbounded() bool { return l.unbounded }

// Value returns the finite limit. It is meaningless for unbounded limits.
func (l Limit) Value() int { return l.value }

// Plan is the resolved allowance for an account.
type Plan struct {
	Tier          domain.Tier
	DailyQuota    int
	LifetimeQuota Limit
}

// CountryLabel stands for any two-letter country code label at the end of a
// suffix pattern.
const CountryLabel = ".<cc>"

// DefaultAcademicSuffixes lists the email domain suffixes that grant the premium tier.
var DefaultAcademicSuffixes = []string{".edu", ".edu" + CountryLabel, ".ac" + CountryLabel}

// Resolver classifies email addresses. It is pure and safe for concurrent use.
type Resolver struct {
	suffixes []string
}

// NewResolver creates a Resolver for the given domain suffix patterns. A
// plain suffix matches a domain ending in it. A suffix ending in CountryLabel
// only matches when followed by a two-letter country label, so ".ac.<cc>"
// matches "ox.ac.uk" but not "startup.ac".
func NewResolver(suffixes []string) *Resolver {
	normalized := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || s == CountryLabel {
			continue
		}
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		normalized = append(normalized, s)
	}
	return &Resolver{suffixes: normalized}
}

// NewDefaultResolver creates a Resolver using DefaultAcademicSuffixes.
func NewDefaultResolver() *Resolver {
	return NewResolver(DefaultAcademicSuffixes)
}

// Resolve returns the plan for email. Malformed addresses resolve to the free tier.
func (r *Resolver) Resolve(email string) Plan {
	if r.isPremium(email) {
		return Plan{
			Tier:          domain.TierPremium,
			DailyQuota:    PremiumDailyQuota,
			LifetimeQuota: Unbounded(),
		}
	}
	return Plan{
		Tier:          domain.TierFree,
		DailyQuota:    FreeDailyQuota,
		LifetimeQuota: Bounded(FreeLifetimeQuota),
	}
}

func (r *Resolver) isPremium(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	host := "." + strings.ToLower(strings.TrimSpace(email[at+1:]))

	for _, suffix := range r.suffixes {
		if base, ok := strings.CutSuffix(suffix, CountryLabel); ok {
			dot := strings.LastIndex(host, ".")
			cc := host[dot+1:]
			if len(cc) == 2 && isLetters(cc) && strings.HasSuffix(host[:dot], base) {
				return true
			}
			continue
		}
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

func isLetters(s string) bool {
	for _, c := range s {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}
