package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Filter state lives in user-editable JSON files under the data dir.
// Missing files fall back to the defaults below.
const (
	keywordsFile  = "keywords.json"
	locationsFile = "locations.json"
)

// DefaultKeywords matches jobs for the devops/platform niche when the user
// has not set their own list.
var DefaultKeywords = []string{
	"devops", "sre", "site reliability", "platform engineer",
	"infrastructure", "cloud engineer", "devsecops", "kubernetes", "terraform",
}

// DefaultLocations targets US/Canada plus remote-friendly postings.
var DefaultLocations = Locations{
	Allowed: []string{
		"united states", "usa", "u.s.", "america", "canada", "canadian",
		"toronto", "vancouver", "montreal", "ontario", "british columbia",
		"california", "new york", "texas", "washington", "colorado",
		"san francisco", "seattle", "austin", "denver", "boston", "chicago",
		"remote", "north america", "worldwide", "anywhere", "global",
	},
	Excluded: []string{
		"europe only", "eu only", "uk only", "emea only", "apac only",
		"india only", "australia only", "vienna", "berlin", "london",
		"paris", "amsterdam", "dublin", "singapore", "tokyo", "sydney",
	},
}

// Locations is the allowed/excluded location filter state.
type Locations struct {
	Allowed  []string `json:"allowed"`
	Excluded []string `json:"excluded"`
}

// LoadKeywords reads the keyword list from dataDir. A missing file yields
// the defaults.
func LoadKeywords(dataDir string) ([]string, error) {
	path := filepath.Join(dataDir, keywordsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return append([]string(nil), DefaultKeywords...), nil
		}
		return nil, fmt.Errorf("read keywords: %w", err)
	}

	var keywords []string
	if err := json.Unmarshal(data, &keywords); err != nil {
		return nil, fmt.Errorf("parse keywords: %w", err)
	}
	return keywords, nil
}

// SaveKeywords writes the keyword list to dataDir, creating it if needed.
func SaveKeywords(dataDir string, keywords []string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(keywords, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, keywordsFile), data, 0o644); err != nil {
		return fmt.Errorf("write keywords: %w", err)
	}
	return nil
}

// LoadLocations reads the location filter state from dataDir. A missing file
// yields the defaults.
func LoadLocations(dataDir string) (Locations, error) {
	path := filepath.Join(dataDir, locationsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultLocations, nil
		}
		return Locations{}, fmt.Errorf("read locations: %w", err)
	}

	var locs Locations
	if err := json.Unmarshal(data, &locs); err != nil {
		return Locations{}, fmt.Errorf("parse locations: %w", err)
	}
	return locs, nil
}

// SaveLocations writes the location filter state to dataDir.
func SaveLocations(dataDir string, locs Locations) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(locs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal locations: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, locationsFile), data, 0o644); err != nil {
		return fmt.Errorf("write locations: %w", err)
	}
	return nil
}
