package quota

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/domain/tier"
)

// UnlimitedLabel is how unbounded amounts appear in JSON.
const UnlimitedLabel = "unlimited"

// Amount is a non-negative count that may be unlimited.
type Amount struct {
	value     int
	unlimited bool
}

// Count returns a finite amount.
func Count(n int) Amount { return Amount{value: n} }

// Unlimited returns an amount with no ceiling.
func Unlimited() Amount { return Amount{unlimited: true} }

// IsUnlimited reports whether the amount has no ceiling.
func (a Amount) IsUnlimited() bool { return a.unlimited }

// Int returns the finite value; zero when unlimited.
func (a Amount) Int() int { return a.value }

// MarshalJSON renders finite amounts as numbers and unlimited ones as
// the string "unlimited".
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.unlimited {
		return json.Marshal(UnlimitedLabel)
	}
	return []byte(strconv.Itoa(a.value)), nil
}

// UnmarshalJSON accepts either form produced by MarshalJSON.
func (a *Amount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != UnlimitedLabel {
			return fmt.Errorf("quota: unexpected amount %q", s)
		}
		*a = Unlimited()
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = Count(n)
	return nil
}

// DailyUsage is the per-day allowance of an account.
type DailyUsage struct {
	Quota     int `json:"quota"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

// TotalUsage is the lifetime allowance of an account.
type TotalUsage struct {
	Quota       Amount `json:"quota"`
	Used        int    `json:"used"`
	Remaining   Amount `json:"remaining"`
	BaseQuota   Amount `json:"baseQuota"`
	BonusEssays int    `json:"bonusEssays"`
}

// Status is the quota snapshot returned to clients.
type Status struct {
	Email string      `json:"email"`
	Tier  domain.Tier `json:"tier"`
	Daily DailyUsage  `json:"daily"`
	Total TotalUsage  `json:"total"`
}

// CanSubmit reports whether both the daily and total allowances have room.
func (s *Status) CanSubmit() bool {
	if s.Daily.Remaining <= 0 {
		return false
	}
	return s.Total.Remaining.IsUnlimited() || s.Total.Remaining.Int() > 0
}

// Compute derives the status of acct under plan. The account's daily
// counter must already reflect today's reset.
func Compute(acct *domain.Account, plan tier.Plan) *Status {
	status := &Status{
		Email: acct.Email,
		Tier:  plan.Tier,
		Daily: DailyUsage{
			Quota:     plan.DailyQuota,
			Used:      acct.DailyCount,
			Remaining: remaining(plan.DailyQuota, acct.DailyCount),
		},
		Total: TotalUsage{
			Used:        acct.LifetimeCount,
			BonusEssays: acct.BonusCredits,
		},
	}

	if plan.LifetimeQuota.IsUnbounded() {
		status.Total.Quota = Unlimited()
		status.Total.Remaining = Unlimited()
		status.Total.BaseQuota = Unlimited()
		return status
	}

	base := plan.LifetimeQuota.Value()
	total := base + acct.BonusCredits
	status.Total.Quota = Count(total)
	status.Total.Remaining = Count(remaining(total, acct.LifetimeCount))
	status.Total.BaseQuota = Count(base)
	return status
}

func remaining(quota, used int) int {
	if used >= quota {
		return 0
	}
	return quota - used
}
