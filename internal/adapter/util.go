package adapter

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// extractText converts an HTML or HTML-encoded string to plain text.
// It first unescapes HTML entities (handles double-encoded API payloads;
// no-op on already-real HTML), strips all tags, then collapses whitespace.
func extractText(content string) string {
	unescaped := html.UnescapeString(content)
	plain := htmlTagRegex.ReplaceAllString(unescaped, "")
	return strings.Join(strings.Fields(plain), " ")
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

var salaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$[\d,]+\s*[-–]\s*\$[\d,]+`),
	regexp.MustCompile(`(?i)\$[\d,]+k?\s*[-–]\s*\$?[\d,]+k?`),
	regexp.MustCompile(`(?i)CAD\s*[\d,]+\s*[-–]\s*[\d,]+`),
	regexp.MustCompile(`(?i)USD\s*[\d,]+\s*[-–]\s*[\d,]+`),
	regexp.MustCompile(`\$[\d,]+\+?`),
}

// extractSalary pulls the first salary-looking figure out of free text.
// Returns "" when nothing matches.
func extractSalary(text string) string {
	for _, p := range salaryPatterns {
		if m := p.FindString(text); m != "" {
			return m
		}
	}
	return ""
}
