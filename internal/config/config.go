package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the jobradar pipeline.
type Config struct {
	DataDir       string
	Workers       int
	SourceTimeout time.Duration
	HTTPTimeout   time.Duration
	RateLimit     RateLimitConfig
	Notification  NotificationConfig
	Sources       SourcesConfig
	Filter        FilterConfig
}

// FilterConfig tunes filter behavior beyond the user-editable keyword and
// location state files.
type FilterConfig struct {
	// SearchDescriptions extends keyword matching from the title to the
	// full description text. Off by default: descriptions are noisy and
	// a keyword hit in boilerplate text drags in unrelated roles.
	SearchDescriptions bool `yaml:"search_descriptions"`
}

// RateLimitConfig controls ATS-level rate limiting.
type RateLimitConfig struct {
	MinDelay     time.Duration            // minimum gap between requests to the same ATS
	ATSOverrides map[string]time.Duration // per-ATS overrides, keyed by ATS name
}

// MinDelayFor returns the configured delay for the given ATS, falling back to MinDelay.
func (r RateLimitConfig) MinDelayFor(ats string) time.Duration {
	if d, ok := r.ATSOverrides[ats]; ok {
		return d
	}
	return r.MinDelay
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// SourcesConfig holds per-source settings for the stand-alone sources.
type SourcesConfig struct {
	RemotiveCategory string   `yaml:"remotive_category"`
	LinkedInURLs     []string `yaml:"linkedin_urls"`
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	DataDir       string             `yaml:"data_dir"`
	Workers       int                `yaml:"workers"`
	SourceTimeout string             `yaml:"source_timeout"`
	HTTPTimeout   string             `yaml:"http_timeout"`
	RateLimit     rawRateLimitConfig `yaml:"rate_limit"`
	Notification  NotificationConfig `yaml:"notification"`
	Sources       SourcesConfig      `yaml:"sources"`
	Filter        FilterConfig       `yaml:"filter"`
}

type rawRateLimitConfig struct {
	MinDelay     string            `yaml:"min_delay"`
	ATSOverrides map[string]string `yaml:"ats_overrides"`
}

// Defaults applied when the config file omits a setting.
const (
	defaultWorkers       = 5
	defaultSourceTimeout = 60 * time.Second
	defaultHTTPTimeout   = 30 * time.Second
	defaultRateDelay     = 1 * time.Second
	defaultDataDir       = "data"
)

// Default returns a Config with every field at its default value.
// Used when no config file exists.
func Default() *Config {
	return &Config{
		DataDir:       defaultDataDir,
		Workers:       defaultWorkers,
		SourceTimeout: defaultSourceTimeout,
		HTTPTimeout:   defaultHTTPTimeout,
		RateLimit: RateLimitConfig{
			MinDelay:     defaultRateDelay,
			ATSOverrides: map[string]time.Duration{},
		},
		Notification: NotificationConfig{Type: "log"},
		Sources: SourcesConfig{
			RemotiveCategory: "software-dev",
		},
	}
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()

	if raw.DataDir != "" {
		cfg.DataDir = raw.DataDir
	}
	if raw.Workers != 0 {
		cfg.Workers = raw.Workers
	}
	if raw.SourceTimeout != "" {
		cfg.SourceTimeout, err = time.ParseDuration(raw.SourceTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse source_timeout %q: %w", raw.SourceTimeout, err)
		}
	}
	if raw.HTTPTimeout != "" {
		cfg.HTTPTimeout, err = time.ParseDuration(raw.HTTPTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse http_timeout %q: %w", raw.HTTPTimeout, err)
		}
	}
	if raw.RateLimit.MinDelay != "" {
		cfg.RateLimit.MinDelay, err = time.ParseDuration(raw.RateLimit.MinDelay)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.min_delay %q: %w", raw.RateLimit.MinDelay, err)
		}
	}
	for ats, s := range raw.RateLimit.ATSOverrides {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.ats_overrides[%q]: %w", ats, err)
		}
		cfg.RateLimit.ATSOverrides[ats] = d
	}
	if raw.Notification.Type != "" {
		cfg.Notification = raw.Notification
	}
	if raw.Sources.RemotiveCategory != "" {
		cfg.Sources.RemotiveCategory = raw.Sources.RemotiveCategory
	}
	cfg.Sources.LinkedInURLs = raw.Sources.LinkedInURLs
	cfg.Filter = raw.Filter

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	if cfg.SourceTimeout <= 0 {
		return fmt.Errorf("source_timeout must be positive, got %v", cfg.SourceTimeout)
	}

	switch cfg.Notification.Type {
	case "log", "":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		const slackPrefix = "https://hooks.slack.com/"
		if len(cfg.Notification.WebhookURL) < len(slackPrefix) ||
			cfg.Notification.WebhookURL[:len(slackPrefix)] != slackPrefix {
			return fmt.Errorf("notification.webhook_url must start with %s", slackPrefix)
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	return nil
}
