package resolver

import (
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

// hostBreakers holds one circuit breaker per source host so a dead registry
// fails fast instead of burning the request timeout on every remaining gem.
type hostBreakers struct {
	mu       sync.RWMutex
	breakers map[string]*circuit.Breaker
}

func newHostBreakers() *hostBreakers {
	return &hostBreakers{breakers: make(map[string]*circuit.Breaker)}
}

func (hb *hostBreakers) forURL(rawURL string) *circuit.Breaker {
	host := extractHost(rawURL)

	hb.mu.RLock()
	breaker, ok := hb.breakers[host]
	hb.mu.RUnlock()
	if ok {
		return breaker
	}

	hb.mu.Lock()
	defer hb.mu.Unlock()

	if breaker, ok := hb.breakers[host]; ok {
		return breaker
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Reset()

	breaker = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(5),
	})

	hb.breakers[host] = breaker
	return breaker
}

func extractHost(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Host
}
