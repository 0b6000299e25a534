// Package dedup collapses records representing the same posting within one
// scan batch.
package dedup

import "github.com/n7z/jobradar/internal/model"

// Collapse keeps the first-seen record per dedup key and drops later
// duplicates. The tie-break is batch order: the orchestrator concatenates
// source batches in a fixed registration order, so when two sources carry
// the same posting the earlier source's record is kept.
func Collapse(jobs []model.Job) (unique []model.Job, dropped []model.Job) {
	seen := make(map[string]struct{}, len(jobs))
	unique = make([]model.Job, 0, len(jobs))

	for _, j := range jobs {
		key := j.Key()
		if _, ok := seen[key]; ok {
			dropped = append(dropped, j)
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, j)
	}
	return unique, dropped
}
