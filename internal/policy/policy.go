// Package policy resolves which source a gem came from and what age policy
// that source carries.
package policy

import (
	"strings"

	"github.com/gemward/gemward/internal/config"
)

// Source is the effective per-registry policy: where to ask for release
// dates, how to authenticate, and how old a gem must be.
type Source struct {
	Name           string
	URL            string
	APIEndpoint    string
	MinimumAgeDays int
	AuthToken      string
}

// Policy maps lockfile remote URLs onto configured sources. The first
// configured source is the default and answers for any URL that matches no
// configured source.
type Policy struct {
	sources []*Source
	byURL   map[string]*Source
}

func New(cfg *config.Config) *Policy {
	p := &Policy{byURL: make(map[string]*Source, len(cfg.Sources))}

	for _, sc := range cfg.Sources {
		src := &Source{
			Name:           sc.Name,
			URL:            sc.URL,
			APIEndpoint:    sc.APIEndpoint,
			MinimumAgeDays: sc.MinimumAgeDays,
			AuthToken:      sc.AuthToken,
		}
		if src.MinimumAgeDays <= 0 {
			src.MinimumAgeDays = cfg.MinimumAgeDays
		}
		p.sources = append(p.sources, src)
		p.byURL[NormalizeURL(src.URL)] = src
	}

	return p
}

// Default returns the fallback source (first configured).
func (p *Policy) Default() *Source {
	return p.sources[0]
}

// Resolve returns the source whose URL matches sourceURL after
// normalization, or the default source when nothing matches.
func (p *Policy) Resolve(sourceURL string) *Source {
	if src, ok := p.byURL[NormalizeURL(sourceURL)]; ok {
		return src
	}
	return p.Default()
}

// Sources returns all configured sources in configuration order.
func (p *Policy) Sources() []*Source {
	return p.sources
}

// NormalizeURL lowers the case and strips the trailing slash so trivial
// formatting differences in a lockfile's remote declaration still match.
func NormalizeURL(u string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(u)), "/")
}
