package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/n7z/jobradar/internal/model"
)

// Limiter enforces a minimum delay between requests to the same source
// backend. One instance is shared by every board fetch and discovery probe
// targeting that backend, so a scan over fifty Greenhouse boards still spaces
// its requests out.
type Limiter struct {
	mu        sync.Mutex
	lastCall  map[string]time.Time // key: source/ATS name
	minDelay  time.Duration
	overrides map[string]time.Duration // per-source overrides
}

// NewLimiter creates a limiter enforcing minDelay between consecutive
// requests to the same source, with optional per-source overrides.
func NewLimiter(minDelay time.Duration, overrides map[string]time.Duration) *Limiter {
	return &Limiter{
		lastCall:  make(map[string]time.Time),
		minDelay:  minDelay,
		overrides: overrides,
	}
}

func (r *Limiter) delayFor(source string) time.Duration {
	if d, ok := r.overrides[source]; ok {
		return d
	}
	return r.minDelay
}

// Wait blocks until enough time has passed since the last request to the
// given source. Returns an error if the context is cancelled while waiting.
func (r *Limiter) Wait(ctx context.Context, source string) error {
	minDelay := r.delayFor(source)

	r.mu.Lock()
	last, ok := r.lastCall[source]
	now := time.Now()

	if !ok || now.Sub(last) >= minDelay {
		r.lastCall[source] = now
		r.mu.Unlock()
		return nil
	}

	remaining := minDelay - now.Sub(last)
	// Reserve the slot before sleeping so concurrent waiters queue up
	// rather than all waking at once.
	r.lastCall[source] = last.Add(minDelay)
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", source, ctx.Err())
	case <-time.After(remaining):
	}
	return nil
}

// LimitedFetcher is a decorator that waits for the limiter before delegating
// to the wrapped BoardFetcher.
type LimitedFetcher struct {
	inner   model.BoardFetcher
	limiter *Limiter
	source  string
}

// NewLimitedFetcher wraps a BoardFetcher with source-level rate limiting.
// All fetchers targeting the same source should share one limiter instance.
func NewLimitedFetcher(inner model.BoardFetcher, limiter *Limiter, source string) *LimitedFetcher {
	return &LimitedFetcher{
		inner:   inner,
		limiter: limiter,
		source:  source,
	}
}

// FetchJobs waits for the rate limiter to allow a request, then delegates to
// the wrapped fetcher.
func (f *LimitedFetcher) FetchJobs(ctx context.Context) ([]model.Job, error) {
	if err := f.limiter.Wait(ctx, f.source); err != nil {
		return nil, err
	}
	return f.inner.FetchJobs(ctx)
}
