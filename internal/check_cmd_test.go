package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gemward/gemward/internal/audit"
	"github.com/gemward/gemward/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	os.Exit(m.Run())
}

// fakeRegistry serves a versions API where every gem has one version released
// at the date registered for it.
func fakeRegistry(t *testing.T, releases map[string]time.Time) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/v1/versions/"), ".json")
		released, ok := releases[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `[{"number":"1.0.0","created_at":%q}]`, released.Format(time.RFC3339))
	}))
}

func writeFixtures(t *testing.T, serverURL string, gems []string) (lockPath, cfgPath, auditPath string) {
	t.Helper()
	dir := t.TempDir()

	var b strings.Builder
	b.WriteString("GEM\n  remote: " + serverURL + "/\n  specs:\n")
	for _, g := range gems {
		b.WriteString("    " + g + " (1.0.0)\n")
	}
	lockPath = filepath.Join(dir, "Gemfile.lock")
	require.NoError(t, os.WriteFile(lockPath, []byte(b.String()), 0o644))

	auditPath = filepath.Join(dir, "audit.log")
	cfg := fmt.Sprintf(`
minimum_age_days: 7
audit_log_path: %s
sources:
  - name: test-registry
    url: %s
    api_endpoint: %s/api/v1/versions/%%s.json
`, auditPath, serverURL, serverURL)
	cfgPath = filepath.Join(dir, "gemward.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	return lockPath, cfgPath, auditPath
}

func runCheck(args ...string) error {
	root := NewRootCmd()
	root.SetArgs(append([]string{"check", "--quiet"}, args...))
	return root.Execute()
}

func TestCheckCmd_AllGemsOldEnough(t *testing.T) {
	srv := fakeRegistry(t, map[string]time.Time{
		"rails": time.Now().AddDate(-1, 0, 0),
		"rake":  time.Now().AddDate(0, -6, 0),
	})
	defer srv.Close()

	lockPath, cfgPath, auditPath := writeFixtures(t, srv.URL, []string{"rails", "rake"})

	err := runCheck("--lockfile", lockPath, "--config", cfgPath)
	require.NoError(t, err)

	// one audit record was appended
	data, err := os.ReadFile(auditPath)
	require.NoError(t, err)
	var rec audit.Record
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &rec))
	assert.Equal(t, "pass", rec.Result)
	assert.Equal(t, 2, rec.CheckedGems)
}

func TestCheckCmd_YoungGemFails(t *testing.T) {
	srv := fakeRegistry(t, map[string]time.Time{
		"rails":     time.Now().AddDate(-1, 0, 0),
		"brand-new": time.Now().AddDate(0, 0, -2),
	})
	defer srv.Close()

	lockPath, cfgPath, auditPath := writeFixtures(t, srv.URL, []string{"rails", "brand-new"})

	err := runCheck("--lockfile", lockPath, "--config", cfgPath)
	require.Error(t, err)

	data, err := os.ReadFile(auditPath)
	require.NoError(t, err)
	var rec audit.Record
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &rec))
	assert.Equal(t, "fail", rec.Result)
	assert.Equal(t, 1, rec.ViolationsCount)
}

func TestCheckCmd_DaysOverride(t *testing.T) {
	// 10 days old: passes the configured 7, fails an override of 30
	srv := fakeRegistry(t, map[string]time.Time{
		"rails": time.Now().AddDate(0, 0, -10),
	})
	defer srv.Close()

	lockPath, cfgPath, _ := writeFixtures(t, srv.URL, []string{"rails"})

	require.NoError(t, runCheck("--lockfile", lockPath, "--config", cfgPath))
	require.Error(t, runCheck("30", "--lockfile", lockPath, "--config", cfgPath))
}

func TestCheckCmd_InvalidDaysArg(t *testing.T) {
	srv := fakeRegistry(t, nil)
	defer srv.Close()

	lockPath, cfgPath, _ := writeFixtures(t, srv.URL, []string{"rails"})

	for _, bad := range []string{"0", "-5", "soon"} {
		err := runCheck(bad, "--lockfile", lockPath, "--config", cfgPath)
		assert.Error(t, err, "days=%s", bad)
	}
}

func TestCheckCmd_UnresolvableGemIsSkipped(t *testing.T) {
	srv := fakeRegistry(t, map[string]time.Time{}) // registry knows nothing
	defer srv.Close()

	lockPath, cfgPath, _ := writeFixtures(t, srv.URL, []string{"ghost"})

	require.NoError(t, runCheck("--lockfile", lockPath, "--config", cfgPath))
}

func TestCheckCmd_MissingLockfile(t *testing.T) {
	srv := fakeRegistry(t, nil)
	defer srv.Close()

	_, cfgPath, _ := writeFixtures(t, srv.URL, nil)

	err := runCheck("--lockfile", filepath.Join(t.TempDir(), "Gemfile.lock"), "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lockfile")
}

func TestCleanupCmd_NoExceptions(t *testing.T) {
	srv := fakeRegistry(t, nil)
	defer srv.Close()

	lockPath, cfgPath, _ := writeFixtures(t, srv.URL, []string{"rails"})

	root := NewRootCmd()
	root.SetArgs([]string{"cleanup", "--quiet", "--lockfile", lockPath, "--config", cfgPath})
	require.NoError(t, root.Execute())
}
