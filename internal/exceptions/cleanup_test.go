package exceptions

import (
	"context"
	"testing"
	"time"

	"github.com/gemward/gemward/internal/config"
	"github.com/gemward/gemward/internal/models"
	"github.com/gemward/gemward/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubResolver returns canned release dates by name@version.
type stubResolver struct {
	dates map[string]time.Time
}

func (s *stubResolver) ReleaseDate(_ context.Context, name, version string, _ *policy.Source) (time.Time, bool) {
	d, ok := s.dates[name+"@"+version]
	return d, ok
}

func TestFindRemovable(t *testing.T) {
	reg := New([]config.Exception{
		{Gem: "aged-out", Version: "1.0.0", Reason: "was too young once", ApprovedBy: "alex"},
		{Gem: "still-young", Version: "2.0.0", Reason: "hotfix", ApprovedBy: "alex"},
		{Gem: "gone", Version: "9.9.9", Reason: "removed from Gemfile", ApprovedBy: "sam"},
		{Gem: "unresolvable", Reason: "yanked upstream", ApprovedBy: "sam"},
	}).WithClock(func() time.Time { return checkTime })

	gems := []models.GemRef{
		{Name: "aged-out", Version: "1.0.0"},
		{Name: "still-young", Version: "2.0.0"},
		{Name: "unresolvable", Version: "3.0.0"},
	}

	res := &stubResolver{dates: map[string]time.Time{
		"aged-out@1.0.0":    checkTime.AddDate(0, 0, -30), // passes the 7 day policy unaided
		"still-young@2.0.0": checkTime.AddDate(0, 0, -2),
	}}

	pol := policy.New(&config.Config{
		MinimumAgeDays: 7,
		Sources: []config.Source{
			{Name: "rubygems", URL: "https://rubygems.org", APIEndpoint: "https://rubygems.org/api/v1/versions/%s.json"},
		},
	})

	result := reg.FindRemovable(context.Background(), gems, nil, pol, res)

	require.Len(t, result.Removable, 1)
	assert.Equal(t, "aged-out", result.Removable[0].Entry.Gem)
	assert.Equal(t, Removable, result.Removable[0].Status)
	assert.Equal(t, 30, result.Removable[0].AgeDays)

	require.Len(t, result.Kept, 3)
	byGem := map[string]Status{}
	for _, o := range result.Kept {
		byGem[o.Entry.Gem] = o.Status
	}
	assert.Equal(t, KeptTooYoung, byGem["still-young"])
	assert.Equal(t, KeptMissing, byGem["gone"])
	assert.Equal(t, KeptUnresolved, byGem["unresolvable"])
}

func TestFindRemovable_VersionPinnedEntryIgnoresOtherVersions(t *testing.T) {
	reg := New([]config.Exception{
		{Gem: "rails", Version: "7.1.3.1", Reason: "hotfix", ApprovedBy: "alex"},
	}).WithClock(func() time.Time { return checkTime })

	// lockfile moved on to a different version
	gems := []models.GemRef{{Name: "rails", Version: "7.2.0"}}

	pol := policy.New(&config.Config{
		MinimumAgeDays: 7,
		Sources: []config.Source{
			{Name: "rubygems", URL: "https://rubygems.org", APIEndpoint: "https://rubygems.org/api/v1/versions/%s.json"},
		},
	})

	result := reg.FindRemovable(context.Background(), gems, nil, pol, &stubResolver{})

	require.Len(t, result.Kept, 1)
	assert.Equal(t, KeptMissing, result.Kept[0].Status)
}
