package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseHiringComment(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantOK       bool
		wantCompany  string
		wantTitle    string
		wantLocation string
	}{
		{
			name:         "conventional pipe format",
			text:         "Acme Robotics | Senior DevOps Engineer | Remote (US) | $170k<p>We build robots.",
			wantOK:       true,
			wantCompany:  "Acme Robotics",
			wantTitle:    "Senior DevOps Engineer",
			wantLocation: "Remote (US)",
		},
		{
			name:   "prose without pipes is rejected",
			text:   "We are hiring engineers, email us at jobs@example.com",
			wantOK: false,
		},
		{
			name:   "pipes but no role token",
			text:   "Acme | Series B | NYC",
			wantOK: false,
		},
		{
			name:         "missing location defaults to remote",
			text:         "Tinyco | Platform Engineer",
			wantOK:       true,
			wantCompany:  "Tinyco",
			wantTitle:    "Platform Engineer",
			wantLocation: "Remote",
		},
		{
			name:   "empty comment",
			text:   "",
			wantOK: false,
		},
		{
			name:   "absurdly long company segment",
			text:   "this is not really a company name it is a paragraph of text that keeps going and going | Engineer",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, ok := parseHiringComment(hnComment{ID: 7, Text: tt.text, CreatedAt: "2026-03-02T10:00:00Z"})
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if job.Company != tt.wantCompany {
				t.Errorf("company = %q, want %q", job.Company, tt.wantCompany)
			}
			if job.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", job.Title, tt.wantTitle)
			}
			if job.Location != tt.wantLocation {
				t.Errorf("location = %q, want %q", job.Location, tt.wantLocation)
			}
			if job.URL != "https://news.ycombinator.com/item?id=7" {
				t.Errorf("unexpected URL %q", job.URL)
			}
			if job.PostedAt == nil {
				t.Error("expected PostedAt from created_at")
			}
		})
	}
}

func TestHackerNewsFetchJobs_EndToEnd(t *testing.T) {
	searchPayload := `{"hits": [
		{"objectID": "900", "title": "Launch HN: Something"},
		{"objectID": "901", "title": "Ask HN: Who is hiring? (March 2026)"}
	]}`
	itemPayload := `{"id": 901, "title": "Ask HN: Who is hiring? (March 2026)", "children": [
		{"id": 1, "text": "Acme | DevOps Engineer | Remote | $160k", "created_at": "2026-03-02T08:00:00Z"},
		{"id": 2, "text": "just a reply, not a posting", "created_at": "2026-03-02T08:05:00Z"}
	]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/search_by_date":
			w.Write([]byte(searchPayload))
		case "/api/v1/items/901":
			w.Write([]byte(itemPayload))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	a := NewHackerNewsAdapter(rewriteClient(srv))

	jobs, err := a.FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 extracted job, got %d", len(jobs))
	}
	if jobs[0].Company != "Acme" || jobs[0].Title != "DevOps Engineer" {
		t.Errorf("unexpected job %+v", jobs[0])
	}
	if jobs[0].Salary != "$160k" {
		t.Errorf("unexpected salary %q", jobs[0].Salary)
	}
	if jobs[0].Source != "hackernews" {
		t.Errorf("expected source hackernews, got %s", jobs[0].Source)
	}
}

func TestHackerNewsFetchJobs_NoThreadFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"hits": [{"objectID": "1", "title": "Show HN: A thing"}]}`)
	}))
	defer srv.Close()

	a := NewHackerNewsAdapter(rewriteClient(srv))

	jobs, err := a.FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected no jobs when no hiring thread exists, got %d", len(jobs))
	}
}
