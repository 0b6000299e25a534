package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeFile(t, "config.yaml", `
data_dir: /var/lib/jobradar
workers: 8
source_timeout: 90s
rate_limit:
  min_delay: 2s
  ats_overrides:
    lever: 5s
sources:
  remotive_category: devops-sysadmin
  linkedin_urls:
    - https://www.linkedin.com/jobs/search/?keywords=devops
filter:
  search_descriptions: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/var/lib/jobradar" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.SourceTimeout != 90*time.Second {
		t.Errorf("SourceTimeout = %v, want 90s", cfg.SourceTimeout)
	}
	if cfg.RateLimit.MinDelayFor("lever") != 5*time.Second {
		t.Errorf("MinDelayFor(lever) = %v, want 5s", cfg.RateLimit.MinDelayFor("lever"))
	}
	if cfg.RateLimit.MinDelayFor("greenhouse") != 2*time.Second {
		t.Errorf("MinDelayFor(greenhouse) = %v, want 2s", cfg.RateLimit.MinDelayFor("greenhouse"))
	}
	if cfg.Sources.RemotiveCategory != "devops-sysadmin" {
		t.Errorf("RemotiveCategory = %q", cfg.Sources.RemotiveCategory)
	}
	if len(cfg.Sources.LinkedInURLs) != 1 {
		t.Errorf("LinkedInURLs = %v", cfg.Sources.LinkedInURLs)
	}
	if !cfg.Filter.SearchDescriptions {
		t.Error("Filter.SearchDescriptions not read from config")
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeFile(t, "config.yaml", "{}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 5 {
		t.Errorf("Workers = %d, want default 5", cfg.Workers)
	}
	if cfg.SourceTimeout != 60*time.Second {
		t.Errorf("SourceTimeout = %v, want default 60s", cfg.SourceTimeout)
	}
	if cfg.Notification.Type != "log" {
		t.Errorf("Notification.Type = %q, want log", cfg.Notification.Type)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("JOBRADAR_TEST_WEBHOOK", "https://hooks.slack.com/services/T0/B0/x")
	path := writeFile(t, "config.yaml", `
notification:
  type: slack
  webhook_url: ${JOBRADAR_TEST_WEBHOOK}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Notification.WebhookURL != "https://hooks.slack.com/services/T0/B0/x" {
		t.Errorf("WebhookURL = %q", cfg.Notification.WebhookURL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeFile(t, "bad.yaml", "workers: [broken")
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_RejectsBadSlackWebhook(t *testing.T) {
	path := writeFile(t, "config.yaml", `
notification:
  type: slack
  webhook_url: https://example.com/not-slack
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for non-slack webhook URL")
	}
}

func TestLoad_RejectsNonPositiveWorkers(t *testing.T) {
	path := writeFile(t, "config.yaml", "workers: -1\n")
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for negative workers")
	}
}
