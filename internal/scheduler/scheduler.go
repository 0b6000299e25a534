// Package scheduler runs scans on a cron schedule for daemon mode.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"github.com/n7z/jobradar/internal/scan"
)

// ScanFunc runs one scan and returns its summary.
type ScanFunc func(ctx context.Context) (*scan.Summary, error)

// Scheduler triggers scans on a cron schedule. Overlapping runs are
// suppressed: if a scan is still in flight when the next tick fires, the
// tick is skipped.
type Scheduler struct {
	spec    string
	runScan ScanFunc
	logger  *slog.Logger
	running atomic.Bool
}

// New creates a scheduler that runs scanFn per the cron spec
// (standard 5-field syntax, e.g. "*/30 * * * *").
func New(spec string, scanFn ScanFunc, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		spec:    spec,
		runScan: scanFn,
		logger:  logger,
	}
}

// Run starts the cron loop after one immediate scan. It returns nil when ctx
// is cancelled (graceful shutdown), or an error for an invalid cron spec.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(s.spec, func() { s.tick(ctx) })
	if err != nil {
		return fmt.Errorf("parse schedule %q: %w", s.spec, err)
	}

	s.logger.Info("scheduler started", "schedule", s.spec)
	s.tick(ctx)

	c.Start()
	<-ctx.Done()

	// Stop returns once in-flight jobs finish.
	<-c.Stop().Done()
	s.logger.Info("scheduler stopped")
	return nil
}

// tick runs one scan unless a previous one is still in flight.
func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous scan still running, skipping tick")
		return
	}
	defer s.running.Store(false)

	summary, err := s.runScan(ctx)
	if err != nil {
		s.logger.Error("scheduled scan failed", "error", err)
		return
	}
	s.logger.Info("scheduled scan complete",
		"new", summary.TotalNew,
		"updated", summary.TotalUpdated,
		"failed_units", len(summary.Errors),
	)
}
