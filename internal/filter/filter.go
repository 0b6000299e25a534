// Package filter applies keyword and location predicates to normalized job
// records. Matching is case-insensitive substring, not tokenized: callers
// pick filter phrases accordingly.
package filter

import (
	"strings"

	"github.com/n7z/jobradar/internal/model"
)

// Config holds the keyword and location predicates for one scan. It is
// loaded once per scan and treated as read-only while the scan runs.
type Config struct {
	// Keywords match against the title (and description when
	// SearchDescriptions is set). Empty means match all.
	Keywords []string
	// SearchDescriptions extends keyword matching to the description text.
	SearchDescriptions bool
	// AllowedLocations accepts a job when any entry is a substring of its
	// location. Empty means accept all (subject to exclusions).
	AllowedLocations []string
	// ExcludedLocations rejects a job when any entry is a substring of its
	// location. Exclusion always wins over allowance.
	ExcludedLocations []string
}

// Apply returns the subset of jobs passing both keyword and location
// predicates, preserving input order.
func Apply(jobs []model.Job, cfg Config) []model.Job {
	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if MatchKeywords(j, cfg) && MatchLocation(j, cfg) {
			out = append(out, j)
		}
	}
	return out
}

// MatchKeywords reports whether at least one keyword is a case-insensitive
// substring of the job title (or description, when enabled). An empty
// keyword list matches everything.
func MatchKeywords(j model.Job, cfg Config) bool {
	if len(cfg.Keywords) == 0 {
		return true
	}

	text := strings.ToLower(j.Title)
	if cfg.SearchDescriptions && j.Description != "" {
		text += " " + strings.ToLower(j.Description)
	}

	for _, kw := range cfg.Keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// MatchLocation applies the location predicate: any excluded substring
// rejects unconditionally; otherwise a non-empty allowed list requires at
// least one match; an empty allowed list accepts.
func MatchLocation(j model.Job, cfg Config) bool {
	location := strings.ToLower(j.Location)

	for _, exc := range cfg.ExcludedLocations {
		if exc != "" && strings.Contains(location, strings.ToLower(exc)) {
			return false
		}
	}

	if len(cfg.AllowedLocations) == 0 {
		return true
	}
	for _, loc := range cfg.AllowedLocations {
		if loc != "" && strings.Contains(location, strings.ToLower(loc)) {
			return true
		}
	}
	return false
}
