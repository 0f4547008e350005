package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.ContextLines != DefaultContextLines {
		t.Errorf("ContextLines = %d, want %d", cfg.ContextLines, DefaultContextLines)
	}
	if cfg.RetentionDays != DefaultRetentionDays {
		t.Errorf("RetentionDays = %d, want %d", cfg.RetentionDays, DefaultRetentionDays)
	}
	if cfg.CacheDir == "" {
		t.Error("CacheDir should default under the home directory")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logsift.yaml")
	doc := `
cache_dir: /tmp/logsift-test
context_lines: 4
retention_days: 7
webhooks:
  - name: ci
    url: https://hooks.example.com/logsift
    trigger: always
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.CacheDir != "/tmp/logsift-test" {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.ContextLines != 4 {
		t.Errorf("ContextLines = %d, want 4", cfg.ContextLines)
	}
	if cfg.RetentionDays != 7 {
		t.Errorf("RetentionDays = %d, want 7", cfg.RetentionDays)
	}
	if len(cfg.Webhooks) != 1 {
		t.Fatalf("got %d webhooks, want 1", len(cfg.Webhooks))
	}
	if cfg.Webhooks[0].Trigger != WebhookTriggerAlways {
		t.Errorf("Trigger = %q, want always", cfg.Webhooks[0].Trigger)
	}
	if cfg.Webhooks[0].Timeout != DefaultWebhookTimeout {
		t.Errorf("Timeout = %v, want default %v", cfg.Webhooks[0].Timeout, DefaultWebhookTimeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load on missing file should fail")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvCacheDir, "/tmp/env-cache")
	t.Setenv(EnvPatternDir, "/tmp/env-patterns")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.CacheDir != "/tmp/env-cache" {
		t.Errorf("CacheDir = %q, want env override", cfg.CacheDir)
	}
	if cfg.PatternDir != "/tmp/env-patterns" {
		t.Errorf("PatternDir = %q, want env override", cfg.PatternDir)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"negative context", func(c *Config) { c.ContextLines = -1 }, "context_lines"},
		{"zero retention", func(c *Config) { c.RetentionDays = 0 }, "retention_days"},
		{"empty cache dir", func(c *Config) { c.CacheDir = "" }, "cache_dir"},
		{
			"webhook without url",
			func(c *Config) { c.Webhooks = []WebhookConfig{{Name: "x"}} },
			"url is required",
		},
		{
			"webhook bad scheme",
			func(c *Config) { c.Webhooks = []WebhookConfig{{URL: "ftp://example.com"}} },
			"scheme",
		},
		{
			"webhook bad trigger",
			func(c *Config) { c.Webhooks = []WebhookConfig{{URL: "https://example.com", Trigger: "sometimes"}} },
			"trigger",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CacheDir = "/tmp/logsift-test"
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateWebhookDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheDir = "/tmp/logsift-test"
	cfg.Webhooks = []WebhookConfig{{URL: "https://example.com/hook"}}

	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	wh := cfg.Webhooks[0]
	if wh.Trigger != WebhookTriggerOnIssues {
		t.Errorf("Trigger = %q, want on_issues", wh.Trigger)
	}
	if wh.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", wh.Timeout)
	}
}

func TestValidateExpandsTokenEnv(t *testing.T) {
	t.Setenv("LOGSIFT_TEST_TOKEN", "s3cret")

	cfg := DefaultConfig()
	cfg.CacheDir = "/tmp/logsift-test"
	cfg.Webhooks = []WebhookConfig{{URL: "https://example.com", Token: "$LOGSIFT_TEST_TOKEN"}}

	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.Webhooks[0].Token != "s3cret" {
		t.Errorf("Token = %q, want expanded env value", cfg.Webhooks[0].Token)
	}
}
