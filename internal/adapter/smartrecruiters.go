package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/n7z/jobradar/internal/model"
)

const smartRecruitersBaseURL = "https://api.smartrecruiters.com/v1/companies"

// smartRecruitersPosting represents one posting in the SmartRecruiters
// postings API response.
type smartRecruitersPosting struct {
	ID         string                  `json:"id"`
	Name       string                  `json:"name"`
	ReleasedAt string                  `json:"releasedDate"`
	Location   smartRecruitersLocation `json:"location"`
	ApplyURL   string                  `json:"applyUrl"`
}

type smartRecruitersLocation struct {
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
	Remote  bool   `json:"remote"`
}

// smartRecruitersResponse is the top-level postings API response.
type smartRecruitersResponse struct {
	TotalFound int                      `json:"totalFound"`
	Content    []smartRecruitersPosting `json:"content"`
}

// SmartRecruitersAdapter fetches jobs from the SmartRecruiters public
// postings API.
type SmartRecruitersAdapter struct {
	companyID   string
	companyName string
	client      *http.Client
}

// NewSmartRecruitersAdapter creates a new adapter for a SmartRecruiters company.
func NewSmartRecruitersAdapter(companyID string, companyName string, client *http.Client) *SmartRecruitersAdapter {
	return &SmartRecruitersAdapter{
		companyID:   companyID,
		companyName: companyName,
		client:      client,
	}
}

// FetchJobs retrieves all postings for the company and normalizes them into
// the unified Job model. Untitled records are skipped.
func (a *SmartRecruitersAdapter) FetchJobs(ctx context.Context) ([]model.Job, error) {
	url := fmt.Sprintf("%s/%s/postings", smartRecruitersBaseURL, a.companyID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("smartrecruiters fetch for %s: %w", a.companyID, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("smartrecruiters fetch for %s: %w", a.companyID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("smartrecruiters fetch for %s: unexpected status %d", a.companyID, resp.StatusCode),
		}
	}

	var srResp smartRecruitersResponse
	if err := json.NewDecoder(resp.Body).Decode(&srResp); err != nil {
		return nil, fmt.Errorf("smartrecruiters fetch for %s: %w", a.companyID, err)
	}

	jobs := make([]model.Job, 0, len(srResp.Content))
	for _, p := range srResp.Content {
		if p.Name == "" {
			continue
		}

		url := p.ApplyURL
		if url == "" {
			url = fmt.Sprintf("https://jobs.smartrecruiters.com/%s/%s", a.companyID, p.ID)
		}

		job := model.Job{
			ID:       model.JobID(p.Name, a.companyName),
			Title:    p.Name,
			Company:  a.companyName,
			Location: formatSmartRecruitersLocation(p.Location),
			URL:      url,
			Source:   "smartrecruiters",
		}

		if p.ReleasedAt != "" {
			if t, err := time.Parse(time.RFC3339, p.ReleasedAt); err == nil {
				job.PostedAt = &t
			}
		}

		jobs = append(jobs, job)
	}

	return jobs, nil
}

// formatSmartRecruitersLocation joins the structured location fields into the
// free-text form the rest of the pipeline expects.
func formatSmartRecruitersLocation(l smartRecruitersLocation) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{l.City, l.Region, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if l.Remote {
		parts = append(parts, "Remote")
	}
	return strings.Join(parts, ", ")
}
