// Package merge reconciles a scan's deduplicated batch against the persisted
// job store, preserving user state across re-scans.
package merge

import (
	"fmt"
	"time"

	"github.com/n7z/jobradar/internal/model"
)

// Stats reports what one merge did.
type Stats struct {
	New     int // records inserted for the first time
	Updated int // existing records refreshed with new scrape data
}

// Reconcile computes the records to write for one batch against the current
// store contents. It is pure: no I/O, no clock reads beyond the passed now.
//
// For each incoming job: absent from the store → insert with DiscoveredAt
// set to now; present → refresh the scraped fields but carry over
// DiscoveredAt, Applied, Hidden and AppliedAt from the existing record.
// Store records absent from the batch are left alone; a posting vanishing
// from a source does not mean it is gone.
func Reconcile(existing map[string]model.Job, batch []model.Job, now time.Time) ([]model.Job, Stats) {
	upserts := make([]model.Job, 0, len(batch))
	var stats Stats

	for _, incoming := range batch {
		prev, ok := existing[incoming.ID]
		if !ok {
			incoming.DiscoveredAt = now
			upserts = append(upserts, incoming)
			stats.New++
			continue
		}

		incoming.DiscoveredAt = prev.DiscoveredAt
		incoming.Applied = prev.Applied
		incoming.Hidden = prev.Hidden
		incoming.AppliedAt = prev.AppliedAt
		upserts = append(upserts, incoming)
		stats.Updated++
	}

	return upserts, stats
}

// Apply runs one merge against the store: read current records, reconcile,
// and write the upsert set in a single transaction. A read or write failure
// surfaces as a PersistenceError and leaves the store untouched; the store's
// PutBatch contract guarantees no partial write.
func Apply(store model.JobStore, batch []model.Job, now time.Time) (Stats, error) {
	current, err := store.All()
	if err != nil {
		return Stats{}, &model.PersistenceError{Op: "read", Err: fmt.Errorf("loading store: %w", err)}
	}

	existing := make(map[string]model.Job, len(current))
	for _, j := range current {
		existing[j.ID] = j
	}

	upserts, stats := Reconcile(existing, batch, now)
	if len(upserts) == 0 {
		return stats, nil
	}

	if err := store.PutBatch(upserts); err != nil {
		return Stats{}, &model.PersistenceError{Op: "write", Err: fmt.Errorf("writing %d records: %w", len(upserts), err)}
	}
	return stats, nil
}
