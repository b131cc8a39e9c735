package exceptions

import (
	"context"
	"time"

	"github.com/gemward/gemward/internal/models"
	"github.com/gemward/gemward/internal/policy"
	"github.com/gemward/gemward/internal/resolver"
)

// Status is the three-way cleanup outcome. The kept statuses stay distinct
// internally even where display text overlaps.
type Status int

const (
	Removable Status = iota
	KeptTooYoung
	KeptMissing
	KeptUnresolved
)

// Outcome pairs an exception entry with its cleanup verdict. AgeDays is only
// meaningful when a release date was resolved.
type Outcome struct {
	Entry   Entry
	Status  Status
	AgeDays int
}

type CleanupResult struct {
	Removable []Outcome
	Kept      []Outcome
}

// FindRemovable re-checks every exception against current release dates. An
// exception is removable once the gem it exempts would now pass the age
// policy unaided. Gems missing from the lockfile or with unresolvable release
// dates are conservatively kept.
func (r *Registry) FindRemovable(ctx context.Context, gems []models.GemRef, sourceMap map[string]string, pol *policy.Policy, res resolver.ReleaseDateResolver) CleanupResult {
	var result CleanupResult
	now := r.now()

	for _, entry := range r.entries {
		gem, present := findGem(gems, entry)
		if !present {
			result.Kept = append(result.Kept, Outcome{Entry: entry, Status: KeptMissing})
			continue
		}

		src := pol.Resolve(sourceMap[gem.Name])
		released, ok := res.ReleaseDate(ctx, gem.Name, gem.Version, src)
		if !ok {
			result.Kept = append(result.Kept, Outcome{Entry: entry, Status: KeptUnresolved})
			continue
		}

		age := int(now.Sub(released).Hours() / 24)
		cutoff := now.AddDate(0, 0, -src.MinimumAgeDays)
		out := Outcome{Entry: entry, AgeDays: age}

		if released.After(cutoff) {
			out.Status = KeptTooYoung
			result.Kept = append(result.Kept, out)
		} else {
			out.Status = Removable
			result.Removable = append(result.Removable, out)
		}
	}

	return result
}

// findGem locates the lockfile entry an exception protects. A version-pinned
// exception only matches that exact version; otherwise the gem's current
// locked version is used.
func findGem(gems []models.GemRef, entry Entry) (models.GemRef, bool) {
	for _, g := range gems {
		if g.Name != entry.Gem {
			continue
		}
		if entry.Version != "" && entry.Version != g.Version {
			continue
		}
		return g, true
	}
	return models.GemRef{}, false
}

// WithClock overrides the wall clock, for tests.
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}
