package tier_test

import (
	"testing"

	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/domain/tier"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	r := tier.NewDefaultResolver()

	tests := []struct {
		email string
		want  domain.Tier
	}{
		{"student@mit.edu", domain.TierPremium},
		{"Student@CS.Stanford.EDU", domain.TierPremium},
		{"someone@unimelb.edu.au", domain.TierPremium},
		{"someone@ox.ac.uk", domain.TierPremium},
		{"someone@auckland.ac.nz", domain.TierPremium},
		{"founder@startup.ac", domain.TierFree},
		{"person@school.edu.com", domain.TierFree},
		{"person@gmail.com", domain.TierFree},
		{"person@education.com", domain.TierFree},
		{"person@edu.example.com", domain.TierFree},
		{"person@mit.edu.evil.com", domain.TierFree},
		{"not-an-email", domain.TierFree},
		{"@mit.edu", domain.TierFree},
		{"trailing@", domain.TierFree},
		{"", domain.TierFree},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.email).Tier)
		})
	}
}

func TestResolvePlans(t *testing.T) {
	r := tier.NewDefaultResolver()

	premium := r.Resolve("a@uni.edu")
	assert.Equal(t, 5, premium.DailyQuota)
	assert.True(t, premium.LifetimeQuota.IsUnbounded())

	free := r.Resolve("a@example.com")
	assert.Equal(t, 3, free.DailyQuota)
	assert.False(t, free.LifetimeQuota.IsUnbounded())
	assert.Equal(t, 9, free.LifetimeQuota.Value())
}

func TestResolveIsDeterministic(t *testing.T) {
	r := tier.NewDefaultResolver()
	for i := 0; i < 10; i++ {
		assert.Equal(t, r.Resolve("a@uni.edu"), r.Resolve("a@uni.edu"))
	}
}

func TestCustomSuffixes(t *testing.T) {
	r := tier.NewResolver([]string{"school.org", " "})

	assert.Equal(t, domain.TierPremium, r.Resolve("kid@district.school.org").Tier)
	assert.Equal(t, domain.TierFree, r.Resolve("kid@mit.edu").Tier)
}

func TestCustomCountrySuffixes(t *testing.T) {
	r := tier.NewResolver([]string{"sch" + tier.CountryLabel, tier.CountryLabel})

	assert.Equal(t, domain.TierPremium, r.Resolve("kid@north.sch.uk").Tier)
	assert.Equal(t, domain.TierFree, r.Resolve("kid@north.sch").Tier)
	assert.Equal(t, domain.TierFree, r.Resolve("kid@example.uk").Tier)
}
