package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/n7z/jobradar/internal/config"
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Manage the board registry",
}

var companiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered company boards",
	RunE:  runCompaniesList,
}

var companiesAddCmd = &cobra.Command{
	Use:   "add <ats> <name> <board>",
	Short: "Register a company board",
	Long: "Registers a board so future scans include it. This is also the\n" +
		"confirmation step for `discover` proposals.",
	Args: cobra.ExactArgs(3),
	RunE: runCompaniesAdd,
}

func init() {
	companiesCmd.AddCommand(companiesListCmd)
	companiesCmd.AddCommand(companiesAddCmd)
	rootCmd.AddCommand(companiesCmd)
}

func runCompaniesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	registry, err := config.LoadRegistry(registryPath(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load registry: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-25s %-16s %s\n", "Company", "ATS", "Board")
	fmt.Println(strings.Repeat("─", 60))

	total := 0
	for _, ats := range config.KnownATS {
		for _, board := range registry.Boards(ats) {
			fmt.Printf("%-25s %-16s %s\n", board.Name, ats, board.ID)
			total++
		}
	}

	fmt.Printf("\nTotal: %d boards\n", total)
	return nil
}

func runCompaniesAdd(cmd *cobra.Command, args []string) error {
	ats, name, board := args[0], args[1], args[2]

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	path := registryPath(cfg)
	registry, err := config.LoadRegistry(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load registry: %v\n", err)
		os.Exit(1)
	}

	if err := registry.Add(ats, name, board); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := registry.Save(path); err != nil {
		return err
	}

	fmt.Printf("registered %s (%s/%s)\n", name, ats, board)
	return nil
}
