package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLeverFetchJobs_Success(t *testing.T) {
	payload := `[
		{
			"id": "abc-123",
			"text": "Senior DevOps Engineer",
			"descriptionPlain": "Run the fleet. USD 160,000 - 190,000.",
			"categories": {
				"location": "Toronto, ON",
				"allLocations": ["Toronto, ON", "Remote - Canada"]
			},
			"createdAt": 1767225600000,
			"hostedUrl": "https://jobs.lever.co/acme/abc-123"
		}
	]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("mode") != "json" {
			t.Errorf("expected mode=json query, got %q", r.URL.RawQuery)
		}
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewLeverAdapter("acme", "Acme", rewriteClient(srv))

	jobs, err := a.FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	j := jobs[0]
	if j.Title != "Senior DevOps Engineer" {
		t.Errorf("unexpected title %s", j.Title)
	}
	if j.Location != "Toronto, ON, Remote - Canada" {
		t.Errorf("expected joined allLocations, got %q", j.Location)
	}
	if j.Source != "lever" {
		t.Errorf("expected source lever, got %s", j.Source)
	}
	if j.Salary != "USD 160,000 - 190,000" {
		t.Errorf("unexpected salary %q", j.Salary)
	}
	if j.PostedAt == nil {
		t.Fatal("expected PostedAt from createdAt millis")
	}
}

func TestLeverFetchJobs_FallsBackToCategoryLocation(t *testing.T) {
	payload := `[{"id": "x", "text": "SRE", "categories": {"location": "Austin, TX"}}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewLeverAdapter("acme", "Acme", rewriteClient(srv))

	jobs, err := a.FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Location != "Austin, TX" {
		t.Fatalf("expected single job located in Austin, TX, got %+v", jobs)
	}
}

func TestLeverFetchJobs_EmptyBoard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	a := NewLeverAdapter("empty-co", "Empty Co", rewriteClient(srv))

	jobs, err := a.FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected 0 jobs, got %d", len(jobs))
	}
}
