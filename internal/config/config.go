package config

import (
	"os"
	"regexp"
	"time"

	"github.com/gemward/gemward/internal/logger"
	"github.com/gemward/gemward/internal/utils"
)

const (
	DefaultMinimumAgeDays = 7
	DefaultMaxWorkers     = 8
	DefaultAuditLogPath   = "gemward-audit.log"

	minWorkers = 1
	maxWorkers = 16
)

type Source struct {
	Name           string `yaml:"name"`
	URL            string `yaml:"url"`
	APIEndpoint    string `yaml:"api_endpoint"`
	MinimumAgeDays int    `yaml:"minimum_age_days,omitempty"`
	AuthToken      string `yaml:"auth_token,omitempty"`
}

type Exception struct {
	Gem        string    `yaml:"gem"`
	Version    string    `yaml:"version,omitempty"`
	Reason     string    `yaml:"reason"`
	ApprovedBy string    `yaml:"approved_by"`
	Expires    time.Time `yaml:"expires,omitempty"`
}

type Config struct {
	MinimumAgeDays int         `yaml:"minimum_age_days"`
	Sources        []Source    `yaml:"sources"`
	MaxWorkers     int         `yaml:"max_workers"`
	AuditLogPath   string      `yaml:"audit_log_path"`
	Exceptions     []Exception `yaml:"exceptions"`
}

func Default() *Config {
	return &Config{
		MinimumAgeDays: DefaultMinimumAgeDays,
		MaxWorkers:     DefaultMaxWorkers,
		AuditLogPath:   DefaultAuditLogPath,
		Sources: []Source{
			{
				Name:        "rubygems",
				URL:         "https://rubygems.org",
				APIEndpoint: "https://rubygems.org/api/v1/versions/%s.json",
			},
		},
	}
}

// Load reads the YAML policy file at path. A missing or malformed file is
// never fatal: it warns and falls back to the complete default configuration.
func Load(path string) *Config {
	cfg := Default()

	if err := utils.FileReader(path, cfg); err != nil {
		logger.Warn("config %s unusable (%v); using defaults", path, err)
		cfg = Default()
	}

	cfg.normalize()
	return cfg
}

// envRef matches a whole-token ${NAME} placeholder. Partial or nested
// placeholders are left untouched.
var envRef = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

func (c *Config) normalize() {
	if c.MinimumAgeDays <= 0 {
		c.MinimumAgeDays = DefaultMinimumAgeDays
	}
	if c.AuditLogPath == "" {
		c.AuditLogPath = DefaultAuditLogPath
	}
	if len(c.Sources) == 0 {
		c.Sources = Default().Sources
	}

	switch {
	case c.MaxWorkers < minWorkers:
		logger.Warn("max_workers %d below minimum; clamped to %d", c.MaxWorkers, minWorkers)
		c.MaxWorkers = minWorkers
	case c.MaxWorkers > maxWorkers:
		logger.Warn("max_workers %d above maximum; clamped to %d", c.MaxWorkers, maxWorkers)
		c.MaxWorkers = maxWorkers
	}

	for i := range c.Sources {
		c.Sources[i].AuthToken = resolveToken(c.Sources[i].AuthToken)
	}
}

// resolveToken substitutes a ${NAME} auth token with the environment value of
// NAME at load time. Substitution is whole-token and single-level.
func resolveToken(token string) string {
	m := envRef.FindStringSubmatch(token)
	if m == nil {
		return token
	}
	return os.Getenv(m[1])
}
