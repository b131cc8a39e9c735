// Package resolver looks up the publication date of a gem version against a
// source's versions API. It is the only package that touches the network.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gemward/gemward/internal/logger"
	"github.com/gemward/gemward/internal/policy"
	"github.com/gemward/gemward/internal/service"
	"github.com/gemward/gemward/internal/utils"
)

const requestTimeout = 10 * time.Second

// ReleaseDateResolver answers when a gem version was published. ok is false
// whenever the date could not be determined; lookups never return errors.
type ReleaseDateResolver interface {
	ReleaseDate(ctx context.Context, name, version string, src *policy.Source) (released time.Time, ok bool)
}

// versionRecord is one entry of a source's versions API response, e.g.
// rubygems.org /api/v1/versions/<gem>.json.
type versionRecord struct {
	Number    string `json:"number"`
	CreatedAt string `json:"created_at"`
}

type HTTPResolver struct {
	client   service.HTTPClient
	breakers *hostBreakers
}

func New(client service.HTTPClient) *HTTPResolver {
	if client == nil {
		client = service.NewHTTPClient(requestTimeout)
	}
	return &HTTPResolver{
		client:   client,
		breakers: newHostBreakers(),
	}
}

// ReleaseDate fetches the source's versions API and extracts the creation
// timestamp of the record whose number equals version. Every failure mode
// (transport error, non-2xx status, malformed body, missing entry, bad
// timestamp) degrades to ok=false so callers can silently skip the gem.
func (r *HTTPResolver) ReleaseDate(ctx context.Context, name, version string, src *policy.Source) (time.Time, bool) {
	url := fmt.Sprintf(src.APIEndpoint, name)

	breaker := r.breakers.forURL(url)
	if !breaker.Ready() {
		logger.Debug("circuit open for %s; skipping %s@%s", src.Name, name, version)
		return time.Time{}, false
	}

	var released time.Time
	found := false

	err := breaker.Call(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if src.AuthToken != "" {
			req.Header.Set("Authorization", "Bearer "+src.AuthToken)
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return err
		}
		defer utils.Try(resp.Body.Close)

		// Server-side failures feed the breaker; anything else non-2xx is a
		// normal not-found outcome.
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("upstream status %d", resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			logger.Debug("lookup %s@%s: status %d", name, version, resp.StatusCode)
			return nil
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		released, found = extractReleaseDate(body, version)
		return nil
	}, 0)
	if err != nil {
		logger.Debug("lookup %s@%s failed: %v", name, version, err)
		return time.Time{}, false
	}

	return released, found
}

func extractReleaseDate(body []byte, version string) (time.Time, bool) {
	var records []versionRecord
	if err := json.Unmarshal(body, &records); err != nil {
		logger.Debug("malformed versions response: %v", err)
		return time.Time{}, false
	}

	for _, rec := range records {
		if rec.Number != version || rec.CreatedAt == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, rec.CreatedAt)
		if err != nil {
			logger.Debug("unparseable created_at %q: %v", rec.CreatedAt, err)
			return time.Time{}, false
		}
		return ts, true
	}

	return time.Time{}, false
}
