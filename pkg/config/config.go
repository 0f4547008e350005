// Package config loads and validates the logsift settings file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for configuration.
const (
	DefaultContextLines   = 2
	DefaultRetentionDays  = 90
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvCacheDir   = "LOGSIFT_CACHE_DIR"
	EnvPatternDir = "LOGSIFT_PATTERN_DIR"
)

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnIssues fires only when issues are detected (default).
	WebhookTriggerOnIssues WebhookTrigger = "on_issues"
	// WebhookTriggerAlways fires after every analysis.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines an endpoint that receives analysis reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires. Defaults to on_issues.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout. Defaults to 10s.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// Config is the root configuration loaded from logsift.yaml.
type Config struct {
	// CacheDir is where captured logs and run history live.
	CacheDir string `yaml:"cache_dir,omitempty"`

	// ContextLines is the default context window on each side of an
	// issue.
	ContextLines int `yaml:"context_lines,omitempty"`

	// PatternDir holds user-supplied rule-set documents, merged over
	// the built-in catalog.
	PatternDir string `yaml:"pattern_dir,omitempty"`

	// RetentionDays controls cache cleanup for logs clean.
	RetentionDays int `yaml:"retention_days,omitempty"`

	// Webhooks are notified after analysis.
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	cacheDir := ""
	patternDir := ""
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".cache", "logsift")
		patternDir = filepath.Join(home, ".config", "logsift", "patterns")
	}

	return &Config{
		CacheDir:      cacheDir,
		ContextLines:  DefaultContextLines,
		PatternDir:    patternDir,
		RetentionDays: DefaultRetentionDays,
	}
}

// Load reads and validates a configuration file. An empty path returns
// validated defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and applies webhook
// defaults.
func Validate(cfg *Config) error {
	if cfg.CacheDir == "" {
		return errors.New("cache_dir: no cache directory configured and home directory unavailable")
	}
	if cfg.ContextLines < 0 {
		return errors.New("context_lines: must be >= 0")
	}
	if cfg.RetentionDays < 1 {
		return errors.New("retention_days: must be >= 1")
	}

	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url must have a host")
	}

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerOnIssues
	case WebhookTriggerOnIssues, WebhookTriggerAlways, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be on_issues, always, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	wh.Token = os.ExpandEnv(wh.Token)

	return nil
}

// applyEnvironmentOverrides applies environment variable overrides.
func (c *Config) applyEnvironmentOverrides() {
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		c.CacheDir = dir
	}
	if dir := os.Getenv(EnvPatternDir); dir != "" {
		c.PatternDir = dir
	}
}
