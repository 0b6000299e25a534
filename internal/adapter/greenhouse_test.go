package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/n7z/jobradar/internal/model"
)

func TestGreenhouseFetchJobs_Success(t *testing.T) {
	payload := `{
		"jobs": [
			{
				"id": 12345,
				"title": "DevOps Engineer",
				"location": {"name": "San Francisco, CA"},
				"absolute_url": "https://boards.greenhouse.io/acme/jobs/12345",
				"content": "&lt;p&gt;Build and run our platform. $150,000 - $180,000&lt;/p&gt;",
				"updated_at": "2026-02-13T10:00:00Z"
			},
			{
				"id": 67890,
				"title": "Site Reliability Engineer",
				"location": {"name": "Remote, US"},
				"absolute_url": "https://boards.greenhouse.io/acme/jobs/67890",
				"updated_at": "2026-02-13T11:30:00Z"
			}
		]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewGreenhouseAdapter("acme", "Acme Corp", rewriteClient(srv))

	jobs, err := a.FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	j := jobs[0]
	if j.ID != model.JobID("DevOps Engineer", "Acme Corp") {
		t.Errorf("unexpected ID %s", j.ID)
	}
	if j.Company != "Acme Corp" {
		t.Errorf("expected company Acme Corp, got %s", j.Company)
	}
	if j.Title != "DevOps Engineer" {
		t.Errorf("expected title DevOps Engineer, got %s", j.Title)
	}
	if j.Location != "San Francisco, CA" {
		t.Errorf("expected location San Francisco, CA, got %s", j.Location)
	}
	if j.Source != "greenhouse" {
		t.Errorf("expected source greenhouse, got %s", j.Source)
	}
	if j.Description != "Build and run our platform. $150,000 - $180,000" {
		t.Errorf("unexpected description %q", j.Description)
	}
	if j.Salary != "$150,000 - $180,000" {
		t.Errorf("unexpected salary %q", j.Salary)
	}
	if j.PostedAt == nil {
		t.Fatal("expected PostedAt to be set")
	}
}

func TestGreenhouseFetchJobs_SkipsUntitledRecord(t *testing.T) {
	payload := `{"jobs": [
		{"id": 1, "title": "", "location": {"name": "NYC"}},
		{"id": 2, "title": "Platform Engineer", "location": {"name": "NYC"}}
	]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewGreenhouseAdapter("acme", "Acme", rewriteClient(srv))

	jobs, err := a.FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job after skipping untitled record, got %d", len(jobs))
	}
	if jobs[0].Title != "Platform Engineer" {
		t.Errorf("unexpected job kept: %s", jobs[0].Title)
	}
}

func TestGreenhouseFetchJobs_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := NewGreenhouseAdapter("acme", "Acme", rewriteClient(srv))

	_, err := a.FetchJobs(context.Background())
	if err == nil {
		t.Fatal("expected error for 429 response")
	}

	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %T", err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", httpErr.StatusCode)
	}
	if httpErr.RetryAfter.Seconds() != 30 {
		t.Errorf("expected RetryAfter 30s, got %v", httpErr.RetryAfter)
	}
}

func TestGreenhouseFetchJobs_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not valid json`))
	}))
	defer srv.Close()

	a := NewGreenhouseAdapter("acme", "Acme", rewriteClient(srv))

	if _, err := a.FetchJobs(context.Background()); err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}
