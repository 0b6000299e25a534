package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/n7z/jobradar/internal/model"
)

const remotiveBaseURL = "https://remotive.com/api/remote-jobs"

// remotiveJob represents a single job in the Remotive API response.
type remotiveJob struct {
	ID                        int64  `json:"id"`
	URL                       string `json:"url"`
	Title                     string `json:"title"`
	CompanyName               string `json:"company_name"`
	PublicationDate           string `json:"publication_date"`
	CandidateRequiredLocation string `json:"candidate_required_location"`
	Salary                    string `json:"salary"`
	Description               string `json:"description"`
}

// remotiveResponse is the top-level Remotive API response.
type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

// remotiveDateFormats covers the timestamp shapes Remotive has been seen to
// return.
var remotiveDateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// RemotiveAdapter fetches jobs from the Remotive remote-jobs API for one
// category.
type RemotiveAdapter struct {
	category string
	client   *http.Client
}

// NewRemotiveAdapter creates a new adapter for a Remotive category
// (e.g. "devops").
func NewRemotiveAdapter(category string, client *http.Client) *RemotiveAdapter {
	return &RemotiveAdapter{
		category: category,
		client:   client,
	}
}

// FetchJobs retrieves jobs from the Remotive API and normalizes them into the
// unified Job model. Records missing a title or company are skipped.
func (a *RemotiveAdapter) FetchJobs(ctx context.Context) ([]model.Job, error) {
	u := remotiveBaseURL
	if a.category != "" {
		u += "?category=" + url.QueryEscape(a.category)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("remotive fetch: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remotive fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("remotive fetch: unexpected status %d", resp.StatusCode),
		}
	}

	var rResp remotiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&rResp); err != nil {
		return nil, fmt.Errorf("remotive fetch: %w", err)
	}

	jobs := make([]model.Job, 0, len(rResp.Jobs))
	for _, rj := range rResp.Jobs {
		if rj.Title == "" || rj.CompanyName == "" {
			continue
		}

		location := rj.CandidateRequiredLocation
		if location == "" {
			location = "Remote"
		}

		desc := extractText(rj.Description)
		salary := rj.Salary
		if salary == "" {
			salary = extractSalary(desc)
		}

		job := model.Job{
			ID:          model.JobID(rj.Title, rj.CompanyName),
			Title:       rj.Title,
			Company:     rj.CompanyName,
			Location:    location,
			URL:         rj.URL,
			Source:      "remotive",
			Description: model.TruncateDescription(desc),
			Salary:      salary,
		}

		for _, layout := range remotiveDateFormats {
			if t, err := time.Parse(layout, rj.PublicationDate); err == nil {
				job.PostedAt = &t
				break
			}
		}

		jobs = append(jobs, job)
	}

	return jobs, nil
}
