// Package discovery probes candidate board identifiers against ATS backends
// to find companies worth tracking. Proposals are returned to the caller for
// confirmation; nothing is written to the registry here.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/n7z/jobradar/internal/adapter"
	"github.com/n7z/jobradar/internal/config"
	"github.com/n7z/jobradar/internal/model"
	"github.com/n7z/jobradar/internal/ratelimit"
)

// Proposal is a candidate board that responded with at least one listing.
type Proposal struct {
	ATS     string
	BoardID string
	// Listings is the number of postings the probe saw, a rough signal of
	// how alive the board is.
	Listings int
}

// CandidateError records a probe that failed. A failure means "could not
// tell", not "does not exist"; the caller may retry later.
type CandidateError struct {
	BoardID string
	Err     error
}

func (e CandidateError) Error() string {
	return fmt.Sprintf("candidate %s: %v", e.BoardID, e.Err)
}

func (e CandidateError) Unwrap() error { return e.Err }

// Engine probes candidates sequentially through the shared rate limiter so
// discovery traffic is spaced the same way scan traffic is.
type Engine struct {
	client  *http.Client
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

// NewEngine creates a discovery engine. The limiter should be shared with
// the scan orchestrator when both run in the same process.
func NewEngine(client *http.Client, limiter *ratelimit.Limiter, logger *slog.Logger) *Engine {
	return &Engine{client: client, limiter: limiter, logger: logger}
}

// Probe checks each candidate board identifier against the given ATS.
// Candidates already present in the registry are skipped. A candidate is
// proposed iff its board responds successfully with at least one listing.
// Per-candidate failures are collected, never fatal; only context
// cancellation aborts the run.
func (e *Engine) Probe(ctx context.Context, ats string, candidates []string, registry config.Registry) ([]Proposal, []CandidateError, error) {
	if !config.IsKnownATS(ats) {
		return nil, nil, &model.RegistryError{ATS: ats, Err: fmt.Errorf("unknown ats")}
	}

	var proposals []Proposal
	var failures []CandidateError

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if registry.Has(ats, candidate) {
			e.logger.Debug("candidate already registered", "ats", ats, "board", candidate)
			continue
		}

		if err := e.limiter.Wait(ctx, ats); err != nil {
			return proposals, failures, err
		}

		jobs, err := e.probeBoard(ctx, ats, candidate)
		if err != nil {
			if ctx.Err() != nil {
				return proposals, failures, ctx.Err()
			}
			failures = append(failures, CandidateError{BoardID: candidate, Err: err})
			e.logger.Debug("candidate probe failed", "ats", ats, "board", candidate, "error", err)
			continue
		}
		if len(jobs) == 0 {
			e.logger.Debug("candidate has no listings", "ats", ats, "board", candidate)
			continue
		}

		proposals = append(proposals, Proposal{ATS: ats, BoardID: candidate, Listings: len(jobs)})
		e.logger.Info("candidate discovered", "ats", ats, "board", candidate, "listings", len(jobs))
	}

	return proposals, failures, nil
}

// probeBoard does one existence fetch through the matching adapter. The
// candidate id doubles as the display name; it is only shown to the user.
func (e *Engine) probeBoard(ctx context.Context, ats, board string) ([]model.Job, error) {
	var fetcher model.BoardFetcher
	switch ats {
	case "greenhouse":
		fetcher = adapter.NewGreenhouseAdapter(board, board, e.client)
	case "lever":
		fetcher = adapter.NewLeverAdapter(board, board, e.client)
	case "ashby":
		fetcher = adapter.NewAshbyAdapter(board, board, e.client)
	case "smartrecruiters":
		fetcher = adapter.NewSmartRecruitersAdapter(board, board, e.client)
	case "bamboohr":
		fetcher = adapter.NewBambooHRAdapter(board, board, e.client)
	default:
		return nil, &model.RegistryError{ATS: ats, Err: fmt.Errorf("unknown ats")}
	}
	return fetcher.FetchJobs(ctx)
}
