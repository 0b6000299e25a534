package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/n7z/jobradar/internal/config"
	"github.com/n7z/jobradar/internal/scan"
	"github.com/n7z/jobradar/internal/scheduler"
	"github.com/n7z/jobradar/internal/store"
)

var (
	serveSchedule string
	serveMode     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scans on a schedule until interrupted",
	Long:  "Runs one scan immediately, then repeats per the cron schedule; blocks until SIGINT/SIGTERM.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveSchedule, "schedule", "@every 1h", "cron schedule for scans (5-field syntax or @every)")
	serveCmd.Flags().StringVarP(&serveMode, "mode", "m", "quick", "scan mode: quick or full")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	mode := scan.Mode(serveMode)
	if mode != scan.ModeQuick && mode != scan.ModeFull {
		return fmt.Errorf("invalid mode %q: want quick or full", serveMode)
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	registry, err := config.LoadRegistry(registryPath(cfg))
	if err != nil {
		logger.Error("failed to load registry", "error", err)
		os.Exit(1)
	}

	filterCfg, err := loadFilter(cfg)
	if err != nil {
		logger.Error("failed to load filter state", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("failed to create data dir", "error", err)
		os.Exit(1)
	}
	sqlStore, err := store.NewSQLiteStore(dbPath(cfg))
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	n := setupNotifier(cfg, httpClient, logger)
	orch := scan.New(cfg, registry, filterCfg, sqlStore, httpClient, logger)

	scanFn := func(ctx context.Context) (*scan.Summary, error) {
		summary, err := orch.Run(ctx, scan.Options{Mode: mode})
		if err != nil {
			return summary, err
		}
		if len(summary.NewJobs) > 0 {
			if err := n.Notify(summary.NewJobs); err != nil {
				logger.Error("notification failed", "error", err)
			}
		}
		return summary, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(serveSchedule, scanFn, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
