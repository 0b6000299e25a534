package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/n7z/jobradar/internal/model"
)

const (
	hnSearchURL = "https://hn.algolia.com/api/v1/search_by_date?query=who%20is%20hiring&tags=story&hitsPerPage=5"
	hnItemURL   = "https://hn.algolia.com/api/v1/items/%s"

	// hnMaxComments bounds how many top-level comments are scanned per
	// thread; hiring threads run to thousands of comments.
	hnMaxComments = 300
)

// roleTokenRegex recognizes a segment that names a role. A comment without a
// role-looking segment is skipped: this adapter trades recall for precision
// since hiring-thread comments are hand-written prose.
var roleTokenRegex = regexp.MustCompile(`(?i)\b(engineer|engineering|developer|devops|sre|architect|scientist|lead|manager|designer|analyst)\b`)

// locationTokenRegex recognizes a segment that looks like a location.
var locationTokenRegex = regexp.MustCompile(`(?i)\b(remote|hybrid|onsite|on-site|worldwide|anywhere|global|usa|u\.s\.|us|canada|america|nyc|sf|new york|san francisco|seattle|austin|denver|boston|chicago|toronto|vancouver|london|berlin|europe|emea)\b`)

// hnBreakReplacer turns HTML paragraph and line breaks into newlines.
var hnBreakReplacer = strings.NewReplacer("<p>", "\n", "</p>", "\n", "<br>", "\n", "<br/>", "\n", "<br />", "\n")

// hnSearchHit is one story in the Algolia search response.
type hnSearchHit struct {
	ObjectID string `json:"objectID"`
	Title    string `json:"title"`
}

// hnSearchResponse is the Algolia search-by-date response.
type hnSearchResponse struct {
	Hits []hnSearchHit `json:"hits"`
}

// hnComment is a top-level comment in the Algolia item response.
type hnComment struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// hnItemResponse is the Algolia item response for a story.
type hnItemResponse struct {
	ID       int64       `json:"id"`
	Title    string      `json:"title"`
	Children []hnComment `json:"children"`
}

// HackerNewsAdapter extracts postings from the most recent Hacker News
// "Who is hiring?" thread. Extraction is heuristic: only comments whose
// first line follows the conventional "Company | Role | Location" pipe
// format are accepted.
type HackerNewsAdapter struct {
	client *http.Client
}

// NewHackerNewsAdapter creates a new adapter for the HN hiring threads.
func NewHackerNewsAdapter(client *http.Client) *HackerNewsAdapter {
	return &HackerNewsAdapter{client: client}
}

// FetchJobs locates the latest hiring thread and parses its top-level
// comments. Comments that do not match the expected posting shape are
// skipped silently; only thread-level fetch failures are returned.
func (a *HackerNewsAdapter) FetchJobs(ctx context.Context) ([]model.Job, error) {
	storyID, err := a.findLatestThread(ctx)
	if err != nil {
		return nil, err
	}
	if storyID == "" {
		// No hiring thread in the most recent stories: nothing to report.
		return nil, nil
	}

	item, err := a.fetchItem(ctx, storyID)
	if err != nil {
		return nil, err
	}

	var jobs []model.Job
	comments := item.Children
	if len(comments) > hnMaxComments {
		comments = comments[:hnMaxComments]
	}
	for _, c := range comments {
		job, ok := parseHiringComment(c)
		if !ok {
			continue
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

func (a *HackerNewsAdapter) findLatestThread(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hnSearchURL, nil)
	if err != nil {
		return "", fmt.Errorf("hackernews search: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("hackernews search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("hackernews search: unexpected status %d", resp.StatusCode),
		}
	}

	var search hnSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return "", fmt.Errorf("hackernews search: %w", err)
	}

	for _, hit := range search.Hits {
		if strings.Contains(strings.ToLower(hit.Title), "who is hiring") {
			return hit.ObjectID, nil
		}
	}
	return "", nil
}

func (a *HackerNewsAdapter) fetchItem(ctx context.Context, storyID string) (*hnItemResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(hnItemURL, storyID), nil)
	if err != nil {
		return nil, fmt.Errorf("hackernews item %s: %w", storyID, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hackernews item %s: %w", storyID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("hackernews item %s: unexpected status %d", storyID, resp.StatusCode),
		}
	}

	var item hnItemResponse
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("hackernews item %s: %w", storyID, err)
	}
	return &item, nil
}

// parseHiringComment applies the posting-shape heuristic to one top-level
// comment. The conventional format is "Company | Role | Location | ..." on
// the first line. Returns ok=false when the shape is not recognizable.
func parseHiringComment(c hnComment) (model.Job, bool) {
	if c.Text == "" {
		return model.Job{}, false
	}

	// Convert paragraph breaks to newlines before stripping tags, so the
	// conventional header stays separable from the comment body.
	withBreaks := hnBreakReplacer.Replace(c.Text)
	stripped := html.UnescapeString(htmlTagRegex.ReplaceAllString(withBreaks, ""))
	plain := strings.Join(strings.Fields(stripped), " ")

	header, _, _ := strings.Cut(strings.TrimSpace(stripped), "\n")

	parts := strings.Split(header, "|")
	if len(parts) < 2 {
		return model.Job{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	company := parts[0]
	if company == "" || len(company) > 60 {
		return model.Job{}, false
	}

	title := ""
	roleIdx := -1
	for i := 1; i < len(parts); i++ {
		if roleTokenRegex.MatchString(parts[i]) {
			title = parts[i]
			roleIdx = i
			break
		}
	}
	if title == "" {
		return model.Job{}, false
	}

	location := "Remote"
	for i := 1; i < len(parts); i++ {
		if i == roleIdx {
			continue
		}
		if locationTokenRegex.MatchString(parts[i]) {
			location = parts[i]
			break
		}
	}

	job := model.Job{
		ID:          model.JobID(title, company),
		Title:       title,
		Company:     company,
		Location:    location,
		URL:         fmt.Sprintf("https://news.ycombinator.com/item?id=%d", c.ID),
		Source:      "hackernews",
		Description: model.TruncateDescription(plain),
		Salary:      extractSalary(plain),
	}

	if t, err := time.Parse(time.RFC3339, c.CreatedAt); err == nil {
		job.PostedAt = &t
	}

	return job, true
}
