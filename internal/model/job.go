package model

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// MaxDescriptionLen caps the stored description text. Anything longer is
// truncated at ingestion so the store stays compact.
const MaxDescriptionLen = 500

// Job is the unified representation of a posting from any source.
type Job struct {
	ID          string     // deterministic, derived from normalized title+company
	Title       string     // job title
	Company     string     // company name
	Location    string     // location string, source-native free text
	URL         string     // direct link to the posting
	Source      string     // adapter name, e.g. "greenhouse", "hackernews"
	Description string     // plain-text excerpt, truncated
	Salary      string     // best-effort extraction, "" if unknown
	PostedAt    *time.Time // nullable (not all sources provide this)

	// DiscoveredAt is set by the merge bridge on first insert and never
	// overwritten on later sightings.
	DiscoveredAt time.Time

	// User-state fields. Owned by the tracking UI; a scan must never
	// overwrite them once set.
	Applied   bool
	Hidden    bool
	AppliedAt *time.Time
}

// Key returns the dedup key for this job: lowercase title and company with
// whitespace collapsed, joined by "|". Two postings with the same key are
// treated as the same job across sources and scans.
func (j Job) Key() string {
	return normalize(j.Title) + "|" + normalize(j.Company)
}

// JobID derives the stable job identifier from title and company: the hex
// md5 of the dedup key. Re-scans reproduce the same ID for the same posting.
func JobID(title, company string) string {
	sum := md5.Sum([]byte(normalize(title) + "|" + normalize(company)))
	return hex.EncodeToString(sum[:])
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// TruncateDescription trims s to MaxDescriptionLen runes.
func TruncateDescription(s string) string {
	r := []rune(s)
	if len(r) <= MaxDescriptionLen {
		return s
	}
	return string(r[:MaxDescriptionLen])
}

// BoardFetcher fetches postings from one source (one ATS board, one API
// endpoint, or one scraped page set).
type BoardFetcher interface {
	FetchJobs(ctx context.Context) ([]Job, error)
}

// JobStore is the persisted job record store keyed by Job.ID.
type JobStore interface {
	// All returns every stored record, hidden ones included.
	All() ([]Job, error)
	// Get returns the record for id; ok is false when absent.
	Get(id string) (Job, bool, error)
	// PutBatch writes all records in one transaction: either every record
	// is written or none is.
	PutBatch(jobs []Job) error
	// SetApplied toggles the applied flag, stamping or clearing AppliedAt.
	SetApplied(id string, applied bool) error
	// SetHidden toggles the hidden flag.
	SetHidden(id string, hidden bool) error
	Close() error
}

// Notifier announces newly discovered jobs after a scan.
type Notifier interface {
	Notify(jobs []Job) error
}
