// Package scan orchestrates one end-to-end scan: build fetch units from the
// config and registry, run them on a bounded worker pool, then pipe the
// combined results through filter, dedup, and the merge bridge.
package scan

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/n7z/jobradar/internal/adapter"
	"github.com/n7z/jobradar/internal/config"
	"github.com/n7z/jobradar/internal/dedup"
	"github.com/n7z/jobradar/internal/filter"
	"github.com/n7z/jobradar/internal/merge"
	"github.com/n7z/jobradar/internal/model"
	"github.com/n7z/jobradar/internal/ratelimit"
	"github.com/n7z/jobradar/internal/retry"
)

// Mode selects which sources a scan covers.
type Mode string

const (
	// ModeQuick hits the fast API sources only.
	ModeQuick Mode = "quick"
	// ModeFull adds the slower API sources and the HTML scraper.
	ModeFull Mode = "full"
)

// sourceOrder fixes the concatenation order of results. Dedup keeps the
// first occurrence of a key, so this order is the cross-source tie-break.
var sourceOrder = []string{
	"remotive", "greenhouse", "lever", "hackernews",
	"ashby", "smartrecruiters", "bamboohr", "linkedin",
}

var quickSources = map[string]bool{
	"remotive":   true,
	"greenhouse": true,
	"lever":      true,
	"hackernews": true,
}

const (
	fetchMaxRetries = 2
	fetchBaseDelay  = 2 * time.Second
)

// Options selects what one scan covers.
type Options struct {
	Mode Mode
	// Sources restricts the scan to an explicit subset of source names.
	// Empty means every source the mode covers.
	Sources []string
}

// SourceError records a source-level failure that did not abort the scan.
type SourceError struct {
	Source string // unit name, e.g. "greenhouse/Acme" or "linkedin"
	Err    error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e SourceError) Unwrap() error { return e.Err }

// SourceStats are the per-source counters reported in the scan summary.
type SourceStats struct {
	Fetched   int // records returned by the source before filtering
	Matched   int // records passing the keyword/location filter
	New       int // records inserted into the store for the first time
	Duplicate int // records dropped as cross-source duplicates
	Failed    int // fetch units that returned a fatal error
}

// Summary reports what one scan did. It is returned even when the scan
// fails at the persistence step, with counters up to the failure point.
type Summary struct {
	Mode      Mode
	StartedAt time.Time
	Duration  time.Duration
	Sources   map[string]*SourceStats
	Errors    []SourceError
	NewJobs   []model.Job // newly discovered postings, for notification

	TotalFetched int
	TotalMatched int
	TotalUnique  int
	TotalNew     int
	TotalUpdated int
}

func (s *Summary) source(name string) *SourceStats {
	st, ok := s.Sources[name]
	if !ok {
		st = &SourceStats{}
		s.Sources[name] = st
	}
	return st
}

// Orchestrator runs scans against a fixed set of dependencies. It is safe to
// reuse across scans but does not serialize them; the scheduler guarantees at
// most one scan runs at a time.
type Orchestrator struct {
	cfg      *config.Config
	registry config.Registry
	filter   filter.Config
	store    model.JobStore
	client   *http.Client
	limiter  *ratelimit.Limiter
	logger   *slog.Logger
}

// New creates an orchestrator. The rate limiter is shared across every board
// of the same backend.
func New(
	cfg *config.Config,
	registry config.Registry,
	filterCfg filter.Config,
	store model.JobStore,
	client *http.Client,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		registry: registry,
		filter:   filterCfg,
		store:    store,
		client:   client,
		limiter:  ratelimit.NewLimiter(cfg.RateLimit.MinDelay, cfg.RateLimit.ATSOverrides),
		logger:   logger,
	}
}

// unit is one fetch task: a single board or stand-alone source.
type unit struct {
	name    string // display name, unique per unit
	source  string // source label, matches Job.Source
	fetcher model.BoardFetcher
}

// Run executes one scan. Per-source failures are recorded in the summary and
// never abort the scan; only a persistence failure returns a non-nil error,
// alongside the partial summary.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Summary, error) {
	start := time.Now()
	summary := &Summary{
		Mode:      opts.Mode,
		StartedAt: start,
		Sources:   make(map[string]*SourceStats),
	}

	units := o.buildUnits(opts, summary)
	o.logger.Info("scan started", "mode", opts.Mode, "units", len(units), "workers", o.cfg.Workers)

	// Results land at the unit's own index so concatenation order is the
	// fixed unit order, not completion order.
	results := make([][]model.Job, len(units))
	fetchErrs := make([]error, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)
	for i, u := range units {
		g.Go(func() error {
			uctx, cancel := context.WithTimeout(gctx, o.cfg.SourceTimeout)
			defer cancel()
			jobs, err := u.fetcher.FetchJobs(uctx)
			if err != nil {
				fetchErrs[i] = err
				return nil
			}
			results[i] = jobs
			return nil
		})
	}
	// Unit errors are captured per slot, never returned to the group.
	_ = g.Wait()

	var combined []model.Job
	for i, u := range units {
		st := summary.source(u.source)
		if fetchErrs[i] != nil {
			st.Failed++
			summary.Errors = append(summary.Errors, SourceError{Source: u.name, Err: fetchErrs[i]})
			o.logger.Warn("source fetch failed", "unit", u.name, "error", fetchErrs[i])
			continue
		}
		matched := filter.Apply(results[i], o.filter)
		st.Fetched += len(results[i])
		st.Matched += len(matched)
		summary.TotalFetched += len(results[i])
		summary.TotalMatched += len(matched)
		combined = append(combined, matched...)
	}

	unique, dropped := dedup.Collapse(combined)
	summary.TotalUnique = len(unique)
	for _, j := range dropped {
		summary.source(j.Source).Duplicate++
	}

	// Snapshot the store so new records can be attributed per source.
	current, err := o.store.All()
	if err != nil {
		summary.Duration = time.Since(start)
		return summary, &model.PersistenceError{Op: "read", Err: fmt.Errorf("loading store: %w", err)}
	}
	known := make(map[string]bool, len(current))
	for _, j := range current {
		known[j.ID] = true
	}
	for _, j := range unique {
		if !known[j.ID] {
			summary.source(j.Source).New++
			summary.NewJobs = append(summary.NewJobs, j)
		}
	}

	stats, err := merge.Apply(o.store, unique, time.Now())
	if err != nil {
		summary.Duration = time.Since(start)
		return summary, err
	}
	summary.TotalNew = stats.New
	summary.TotalUpdated = stats.Updated
	summary.Duration = time.Since(start)

	o.logger.Info("scan finished",
		"mode", opts.Mode,
		"fetched", summary.TotalFetched,
		"matched", summary.TotalMatched,
		"unique", summary.TotalUnique,
		"new", summary.TotalNew,
		"updated", summary.TotalUpdated,
		"failed_units", len(summary.Errors),
		"duration", summary.Duration,
	)
	return summary, nil
}

// buildUnits assembles the ordered fetch unit list for the scan options.
// Unknown source names requested via Options.Sources are recorded as errors.
func (o *Orchestrator) buildUnits(opts Options, summary *Summary) []unit {
	wanted := make(map[string]bool, len(opts.Sources))
	for _, s := range opts.Sources {
		wanted[s] = true
	}
	for _, s := range opts.Sources {
		if !o.knownSource(s) {
			summary.Errors = append(summary.Errors, SourceError{
				Source: s,
				Err:    &model.RegistryError{ATS: s, Err: fmt.Errorf("unknown source")},
			})
		}
	}

	// A hand-edited registry can carry entries under an ATS no adapter
	// serves. Those boards are skipped, not fatal: the healthy boards
	// still scan and the bad key surfaces in the summary.
	for _, ats := range o.registry.UnknownATS() {
		summary.Errors = append(summary.Errors, SourceError{
			Source: ats,
			Err:    &model.RegistryError{ATS: ats, Err: fmt.Errorf("unknown ats in registry")},
		})
		o.logger.Warn("skipping unknown ats in registry", "ats", ats)
	}

	var units []unit
	for _, source := range sourceOrder {
		if len(wanted) > 0 {
			if !wanted[source] {
				continue
			}
		} else if opts.Mode != ModeFull && !quickSources[source] {
			continue
		}

		switch source {
		case "remotive":
			units = append(units, o.newUnit(source, source,
				adapter.NewRemotiveAdapter(o.cfg.Sources.RemotiveCategory, o.client)))
		case "hackernews":
			units = append(units, o.newUnit(source, source,
				adapter.NewHackerNewsAdapter(o.client)))
		case "linkedin":
			if len(o.cfg.Sources.LinkedInURLs) == 0 {
				o.logger.Debug("skipping linkedin, no search urls configured")
				continue
			}
			units = append(units, o.newUnit(source, source,
				adapter.NewLinkedInAdapter(o.cfg.Sources.LinkedInURLs, o.client, o.logger)))
		default:
			for _, board := range o.registry.Boards(source) {
				units = append(units, o.newUnit(
					source+"/"+board.Name, source, o.newBoardFetcher(source, board)))
			}
		}
	}
	return units
}

func (o *Orchestrator) newUnit(name, source string, fetcher model.BoardFetcher) unit {
	limited := ratelimit.NewLimitedFetcher(fetcher, o.limiter, source)
	return unit{
		name:    name,
		source:  source,
		fetcher: retry.NewFetcher(limited, fetchMaxRetries, fetchBaseDelay, o.logger),
	}
}

func (o *Orchestrator) newBoardFetcher(ats string, board config.Board) model.BoardFetcher {
	switch ats {
	case "greenhouse":
		return adapter.NewGreenhouseAdapter(board.ID, board.Name, o.client)
	case "lever":
		return adapter.NewLeverAdapter(board.ID, board.Name, o.client)
	case "ashby":
		return adapter.NewAshbyAdapter(board.ID, board.Name, o.client)
	case "smartrecruiters":
		return adapter.NewSmartRecruitersAdapter(board.ID, board.Name, o.client)
	case "bamboohr":
		return adapter.NewBambooHRAdapter(board.ID, board.Name, o.client)
	}
	panic("unreachable: unknown ats " + ats)
}

func (o *Orchestrator) knownSource(name string) bool {
	for _, s := range sourceOrder {
		if s == name {
			return true
		}
	}
	return false
}
