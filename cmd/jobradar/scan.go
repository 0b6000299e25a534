package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/n7z/jobradar/internal/config"
	"github.com/n7z/jobradar/internal/model"
	"github.com/n7z/jobradar/internal/scan"
	"github.com/n7z/jobradar/internal/store"
)

var (
	scanMode    string
	scanSources []string
	scanDryRun  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one scan across all configured sources",
	Long: "Fetches every source the mode covers, filters and dedupes the results,\n" +
		"and merges them into the local store. Applied/hidden flags on existing\n" +
		"records are preserved.",
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanMode, "mode", "m", "quick", "scan mode: quick (fast API sources) or full (all sources)")
	scanCmd.Flags().StringSliceVarP(&scanSources, "source", "s", nil, "restrict the scan to specific sources (repeatable)")
	scanCmd.Flags().BoolVar(&scanDryRun, "dry-run", false, "scan into an in-memory store, persist nothing")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	mode := scan.Mode(scanMode)
	if mode != scan.ModeQuick && mode != scan.ModeFull {
		return fmt.Errorf("invalid mode %q: want quick or full", scanMode)
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

	var jobStore model.JobStore
	if scanDryRun {
		logger.Info("dry-run mode, nothing will be persisted")
		jobStore = store.NewMemStore()
	} else {
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
		jobStore = sqlStore
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orch := scan.New(cfg, registry, filterCfg, jobStore, httpClient, logger)
	summary, err := orch.Run(ctx, scan.Options{Mode: mode, Sources: scanSources})
	if summary != nil {
		printSummary(summary)
	}
	if err != nil {
		logger.Error("scan failed", "error", err)
		os.Exit(1)
	}

	if !scanDryRun && len(summary.NewJobs) > 0 {
		n := setupNotifier(cfg, httpClient, logger)
		if err := n.Notify(summary.NewJobs); err != nil {
			logger.Error("notification failed", "error", err)
		}
	}
	return nil
}

func printSummary(s *scan.Summary) {
	fmt.Printf("\n%-18s %8s %8s %8s %10s %7s\n", "Source", "Fetched", "Matched", "New", "Duplicate", "Failed")

	names := make([]string, 0, len(s.Sources))
	for name := range s.Sources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		st := s.Sources[name]
		fmt.Printf("%-18s %8d %8d %8d %10d %7d\n",
			name, st.Fetched, st.Matched, st.New, st.Duplicate, st.Failed)
	}

	fmt.Printf("\n%d fetched, %d matched, %d unique, %d new, %d updated in %s\n",
		s.TotalFetched, s.TotalMatched, s.TotalUnique, s.TotalNew, s.TotalUpdated,
		s.Duration.Round(time.Millisecond))

	if len(s.Errors) > 0 {
		fmt.Printf("\n%d source(s) failed:\n", len(s.Errors))
		for _, e := range s.Errors {
			fmt.Printf("  %s: %v\n", e.Source, e.Err)
		}
	}
}
