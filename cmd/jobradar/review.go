package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/n7z/jobradar/internal/review"
	"github.com/n7z/jobradar/internal/store"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse stored jobs and mark them applied or hidden",
	RunE:  runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	sqlStore, err := store.NewSQLiteStore(dbPath(cfg))
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	return review.Run(sqlStore)
}
