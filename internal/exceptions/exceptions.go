// Package exceptions holds the configured, optionally time-limited waivers
// that reclassify age violations instead of failing the build.
package exceptions

import (
	"time"

	"github.com/gemward/gemward/internal/config"
)

// Entry is one configured waiver. An empty Version applies to every version
// of the gem; a zero Expires never expires.
type Entry struct {
	Gem        string
	Version    string
	Reason     string
	ApprovedBy string
	Expires    time.Time
}

type Registry struct {
	entries []Entry
	now     func() time.Time
}

func New(cfg []config.Exception) *Registry {
	r := &Registry{now: time.Now}
	for _, e := range cfg {
		r.entries = append(r.entries, Entry{
			Gem:        e.Gem,
			Version:    e.Version,
			Reason:     e.Reason,
			ApprovedBy: e.ApprovedBy,
			Expires:    e.Expires,
		})
	}
	return r
}

// Match returns the first live entry matching the gem, in configuration
// order, or nil. An entry with a past expiry never matches.
func (r *Registry) Match(name, version string) *Entry {
	now := r.now()
	for i := range r.entries {
		e := &r.entries[i]
		if e.Gem != name {
			continue
		}
		if e.Version != "" && e.Version != version {
			continue
		}
		if !e.Expires.IsZero() && e.Expires.Before(now) {
			continue
		}
		return e
	}
	return nil
}

func (r *Registry) IsExcepted(name, version string) bool {
	return r.Match(name, version) != nil
}

func (r *Registry) ReasonFor(name, version string) string {
	if e := r.Match(name, version); e != nil {
		return e.Reason
	}
	return ""
}

// Entries returns all configured entries in configuration order.
func (r *Registry) Entries() []Entry {
	return r.entries
}
