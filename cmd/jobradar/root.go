package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/n7z/jobradar/internal/config"
	"github.com/n7z/jobradar/internal/filter"
	"github.com/n7z/jobradar/internal/model"
	"github.com/n7z/jobradar/internal/notifier"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobradar",
	Short: "Aggregate job postings from many sources into one tracked listing",
	Long: "jobradar scans ATS boards, job APIs, and career pages, filters the results\n" +
		"by keyword and location, and merges them into a local store that remembers\n" +
		"which postings you applied to or hid.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBRADAR_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBRADAR_CONFIG env var > "./config.yaml".
// A missing default config file yields the built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if !explicit {
		if env := os.Getenv("JOBRADAR_CONFIG"); env != "" {
			path = env
			explicit = true
		} else {
			path = "config.yaml"
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

func registryPath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "registry.yaml")
}

func dbPath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "jobs.db")
}

// loadFilter assembles the filter config from the user-editable state files.
func loadFilter(cfg *config.Config) (filter.Config, error) {
	keywords, err := config.LoadKeywords(cfg.DataDir)
	if err != nil {
		return filter.Config{}, err
	}
	locs, err := config.LoadLocations(cfg.DataDir)
	if err != nil {
		return filter.Config{}, err
	}
	return filter.Config{
		Keywords:           keywords,
		SearchDescriptions: cfg.Filter.SearchDescriptions,
		AllowedLocations:   locs.Allowed,
		ExcludedLocations:  locs.Excluded,
	}, nil
}
