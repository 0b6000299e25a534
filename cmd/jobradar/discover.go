package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/n7z/jobradar/internal/config"
	"github.com/n7z/jobradar/internal/discovery"
	"github.com/n7z/jobradar/internal/ratelimit"
)

var candidatesFile string

var discoverCmd = &cobra.Command{
	Use:   "discover <ats> [candidates...]",
	Short: "Probe candidate board identifiers against an ATS",
	Long: "Checks whether each candidate identifier is a live board on the given ATS.\n" +
		"Hits are printed as proposals; confirm one with `companies add`. Nothing is\n" +
		"written to the registry.",
	Args: cobra.MinimumNArgs(1),
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVarP(&candidatesFile, "candidates-file", "f", "", "file with one candidate identifier per line")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	ats := args[0]
	candidates := args[1:]

	if candidatesFile != "" {
		fromFile, err := readCandidates(candidatesFile)
		if err != nil {
			return err
		}
		candidates = append(candidates, fromFile...)
	}
	if len(candidates) == 0 {
		return fmt.Errorf("no candidates given: pass them as arguments or via --candidates-file")
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	limiter := ratelimit.NewLimiter(cfg.RateLimit.MinDelay, cfg.RateLimit.ATSOverrides)
	engine := discovery.NewEngine(httpClient, limiter, logger)

	proposals, failures, err := engine.Probe(ctx, ats, candidates, registry)
	if err != nil {
		return err
	}

	if len(proposals) == 0 {
		fmt.Println("no live boards found")
	} else {
		fmt.Printf("%-25s %-16s %s\n", "Board", "ATS", "Listings")
		fmt.Println(strings.Repeat("─", 50))
		for _, p := range proposals {
			fmt.Printf("%-25s %-16s %d\n", p.BoardID, p.ATS, p.Listings)
		}
		fmt.Printf("\nconfirm with: jobradar companies add %s <name> <board>\n", ats)
	}

	if len(failures) > 0 {
		fmt.Printf("\n%d candidate(s) could not be probed:\n", len(failures))
		for _, f := range failures {
			fmt.Printf("  %s: %v\n", f.BoardID, f.Err)
		}
	}
	return nil
}

func readCandidates(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read candidates: %w", err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read candidates: %w", err)
	}
	return out, nil
}
