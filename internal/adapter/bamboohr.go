package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/n7z/jobradar/internal/model"
)

// bambooBaseURL is a format string: the board identifier is the subdomain.
const bambooBaseURL = "https://%s.bamboohr.com/careers/list"

// bambooOpening represents one job opening in the BambooHR careers list
// response.
type bambooOpening struct {
	ID             string         `json:"id"`
	JobOpeningName string         `json:"jobOpeningName"`
	Location       bambooLocation `json:"location"`
	LocationType   string         `json:"locationType"` // "0" on-site, "1" hybrid, "2" remote
	DepartmentName string         `json:"departmentLabel"`
}

type bambooLocation struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// bambooResponse is the top-level BambooHR careers list response.
type bambooResponse struct {
	Result []bambooOpening `json:"result"`
}

// BambooHRAdapter fetches jobs from a BambooHR careers page API.
type BambooHRAdapter struct {
	subdomain   string
	companyName string
	client      *http.Client
}

// NewBambooHRAdapter creates a new adapter for a BambooHR careers board.
func NewBambooHRAdapter(subdomain string, companyName string, client *http.Client) *BambooHRAdapter {
	return &BambooHRAdapter{
		subdomain:   subdomain,
		companyName: companyName,
		client:      client,
	}
}

// FetchJobs retrieves all openings from the BambooHR careers board and
// normalizes them into the unified Job model. Untitled records are skipped.
func (a *BambooHRAdapter) FetchJobs(ctx context.Context) ([]model.Job, error) {
	url := fmt.Sprintf(bambooBaseURL, a.subdomain)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("bamboohr fetch for %s: %w", a.subdomain, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bamboohr fetch for %s: %w", a.subdomain, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("bamboohr fetch for %s: unexpected status %d", a.subdomain, resp.StatusCode),
		}
	}

	var bhResp bambooResponse
	if err := json.NewDecoder(resp.Body).Decode(&bhResp); err != nil {
		return nil, fmt.Errorf("bamboohr fetch for %s: %w", a.subdomain, err)
	}

	jobs := make([]model.Job, 0, len(bhResp.Result))
	for _, o := range bhResp.Result {
		if o.JobOpeningName == "" {
			continue
		}

		location := formatBambooLocation(o)

		job := model.Job{
			ID:       model.JobID(o.JobOpeningName, a.companyName),
			Title:    o.JobOpeningName,
			Company:  a.companyName,
			Location: location,
			URL:      fmt.Sprintf("https://%s.bamboohr.com/careers/%s", a.subdomain, o.ID),
			Source:   "bamboohr",
		}

		jobs = append(jobs, job)
	}

	return jobs, nil
}

func formatBambooLocation(o bambooOpening) string {
	parts := make([]string, 0, 3)
	if o.Location.City != "" {
		parts = append(parts, o.Location.City)
	}
	if o.Location.State != "" {
		parts = append(parts, o.Location.State)
	}
	if o.LocationType == "2" {
		parts = append(parts, "Remote")
	}
	return strings.Join(parts, ", ")
}
