package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/n7z/jobradar/internal/config"
)

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Show or edit the keyword and location filters",
}

var filtersShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current filter state",
	RunE:  runFiltersShow,
}

var filtersSetKeywordsCmd = &cobra.Command{
	Use:   "set-keywords <keyword>...",
	Short: "Replace the keyword list",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFiltersSetKeywords,
}

var filtersSetLocationsCmd = &cobra.Command{
	Use:   "set-locations",
	Short: "Replace the location filters",
	RunE:  runFiltersSetLocations,
}

var (
	allowedLocations  []string
	excludedLocations []string
)

func init() {
	filtersSetLocationsCmd.Flags().StringSliceVar(&allowedLocations, "allow", nil, "allowed location substrings (repeatable)")
	filtersSetLocationsCmd.Flags().StringSliceVar(&excludedLocations, "exclude", nil, "excluded location substrings (repeatable)")

	filtersCmd.AddCommand(filtersShowCmd)
	filtersCmd.AddCommand(filtersSetKeywordsCmd)
	filtersCmd.AddCommand(filtersSetLocationsCmd)
	rootCmd.AddCommand(filtersCmd)
}

func runFiltersShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	keywords, err := config.LoadKeywords(cfg.DataDir)
	if err != nil {
		return err
	}
	locs, err := config.LoadLocations(cfg.DataDir)
	if err != nil {
		return err
	}

	fmt.Println("Keywords:")
	for _, kw := range keywords {
		fmt.Printf("  %s\n", kw)
	}
	fmt.Printf("\nAllowed locations: %s\n", strings.Join(locs.Allowed, ", "))
	fmt.Printf("Excluded locations: %s\n", strings.Join(locs.Excluded, ", "))
	return nil
}

func runFiltersSetKeywords(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := config.SaveKeywords(cfg.DataDir, args); err != nil {
		return err
	}
	fmt.Printf("saved %d keywords\n", len(args))
	return nil
}

func runFiltersSetLocations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	locs := config.Locations{Allowed: allowedLocations, Excluded: excludedLocations}
	if err := config.SaveLocations(cfg.DataDir, locs); err != nil {
		return err
	}
	fmt.Printf("saved %d allowed and %d excluded locations\n", len(locs.Allowed), len(locs.Excluded))
	return nil
}
