package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/n7z/jobradar/internal/model"
)

// linkedInMaxCards bounds how many cards are taken per search page.
const linkedInMaxCards = 25

// LinkedInAdapter scrapes LinkedIn public job-search result pages. It pulls
// listing cards by structural selectors and tolerates missing fields; a card
// without a title is skipped. Page-level failures (non-200, network) abort
// only the affected page, not the whole fetch, unless every page fails.
type LinkedInAdapter struct {
	searchURLs []string
	client     *http.Client
	logger     *slog.Logger
}

// NewLinkedInAdapter creates a new adapter over a fixed set of public search
// URLs (one per keyword/location combination).
func NewLinkedInAdapter(searchURLs []string, client *http.Client, logger *slog.Logger) *LinkedInAdapter {
	return &LinkedInAdapter{
		searchURLs: searchURLs,
		client:     client,
		logger:     logger,
	}
}

// FetchJobs fetches each configured search page and extracts listing cards.
// Every failed page is logged so a partially degraded fetch is visible.
func (a *LinkedInAdapter) FetchJobs(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	var lastErr error
	failures := 0

	for _, u := range a.searchURLs {
		pageJobs, err := a.fetchPage(ctx, u)
		if err != nil {
			a.logger.Warn("linkedin page fetch failed", "url", u, "error", err)
			lastErr = err
			failures++
			continue
		}
		jobs = append(jobs, pageJobs...)
	}

	if failures == len(a.searchURLs) && failures > 0 {
		return nil, fmt.Errorf("linkedin fetch: all %d pages failed: %w", failures, lastErr)
	}
	return jobs, nil
}

func (a *LinkedInAdapter) fetchPage(ctx context.Context, pageURL string) ([]model.Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("linkedin fetch %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("linkedin fetch %s: unexpected status %d", pageURL, resp.StatusCode),
		}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("linkedin parse %s: %w", pageURL, err)
	}

	var jobs []model.Job
	doc.Find("div.base-card, div.job-search-card").EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= linkedInMaxCards {
			return false
		}
		if job, ok := parseLinkedInCard(card, pageURL); ok {
			jobs = append(jobs, job)
		}
		return true
	})

	return jobs, nil
}

// parseLinkedInCard extracts one listing from a search-result card. Missing
// company and location fall back to placeholders; a missing title drops the
// card.
func parseLinkedInCard(card *goquery.Selection, pageURL string) (model.Job, bool) {
	title := strings.TrimSpace(card.Find("h3.base-search-card__title").First().Text())
	if title == "" {
		title = strings.TrimSpace(card.Find("span.sr-only").First().Text())
	}
	if title == "" {
		return model.Job{}, false
	}

	company := strings.TrimSpace(card.Find("h4.base-search-card__subtitle").First().Text())
	if company == "" {
		company = "Unknown"
	}

	location := strings.TrimSpace(card.Find("span.job-search-card__location").First().Text())
	if location == "" {
		location = "Remote"
	}

	jobURL, _ := card.Find("a.base-card__full-link").First().Attr("href")
	if jobURL == "" {
		jobURL = pageURL
	}

	snippet := strings.Join(strings.Fields(card.Text()), " ")

	return model.Job{
		ID:          model.JobID(title, company),
		Title:       title,
		Company:     company,
		Location:    location,
		URL:         jobURL,
		Source:      "linkedin",
		Description: model.TruncateDescription(snippet),
		Salary:      extractSalary(snippet),
	}, true
}
