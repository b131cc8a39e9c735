package exceptions

import (
	"os"
	"testing"
	"time"

	"github.com/gemward/gemward/internal/config"
	"github.com/gemward/gemward/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	os.Exit(m.Run())
}

// checkTime is the fixed "now" for these tests: 2026-01-22.
var checkTime = time.Date(2026, 1, 22, 0, 0, 0, 0, time.UTC)

func testRegistry() *Registry {
	return New([]config.Exception{
		{Gem: "rails", Version: "7.1.3.1", Reason: "emergency security patch", ApprovedBy: "alex", Expires: time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)},
		{Gem: "rake", Reason: "pinned tooling", ApprovedBy: "sam"},
		{Gem: "rake", Reason: "duplicate entry", ApprovedBy: "sam"},
		{Gem: "old-waiver", Reason: "expired long ago", ApprovedBy: "kim", Expires: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}).WithClock(func() time.Time { return checkTime })
}

func TestMatch_ExactVersionOnly(t *testing.T) {
	r := testRegistry()

	assert.True(t, r.IsExcepted("rails", "7.1.3.1"))
	assert.False(t, r.IsExcepted("rails", "7.1.3"))
}

func TestMatch_AllVersions(t *testing.T) {
	r := testRegistry()

	assert.True(t, r.IsExcepted("rake", "13.1.0"))
	assert.True(t, r.IsExcepted("rake", "0.0.1"))
}

func TestMatch_ExpiredNeverMatches(t *testing.T) {
	r := testRegistry()

	assert.False(t, r.IsExcepted("old-waiver", "1.0.0"))
	assert.Empty(t, r.ReasonFor("old-waiver", "1.0.0"))
}

func TestMatch_FirstEntryWins(t *testing.T) {
	r := testRegistry()

	assert.Equal(t, "pinned tooling", r.ReasonFor("rake", "13.1.0"))
}

func TestMatch_FutureExpiryStillMatches(t *testing.T) {
	r := testRegistry()

	e := r.Match("rails", "7.1.3.1")
	require.NotNil(t, e)
	assert.Equal(t, "emergency security patch", e.Reason)
}

func TestMatch_UnknownGem(t *testing.T) {
	assert.Nil(t, testRegistry().Match("nokogiri", "1.16.0"))
}
