package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ATS identifiers accepted by the registry. Each maps to an adapter type.
var KnownATS = []string{"greenhouse", "lever", "ashby", "smartrecruiters", "bamboohr"}

// Registry maps an ATS type to the boards polled on it:
// ATS -> company display name -> board identifier (token, slug, or subdomain).
type Registry map[string]map[string]string

// LoadRegistry reads the board registry from a YAML file. A missing file
// yields an empty registry, not an error; a corrupt file is an error.
// Entries under an unknown ATS key are kept as inert data so Save does not
// destroy them; UnknownATS exposes them and the scan reports them as
// skipped.
func LoadRegistry(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Registry{}, nil
		}
		return nil, fmt.Errorf("read registry: %w", err)
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	if reg == nil {
		reg = Registry{}
	}
	return reg, nil
}

// UnknownATS returns the registry keys that do not name a supported adapter
// type, sorted. Boards under these keys are never fetched.
func (r Registry) UnknownATS() []string {
	var unknown []string
	for ats := range r {
		if !IsKnownATS(ats) {
			unknown = append(unknown, ats)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// Save writes the registry back to path. Writes are atomic: the file is
// staged alongside the target and renamed into place.
func (r Registry) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename registry: %w", err)
	}
	return nil
}

// Add registers a board under the given ATS. Returns an error for an unknown
// ATS or a name collision under that ATS.
func (r Registry) Add(ats, name, board string) error {
	if !IsKnownATS(ats) {
		return fmt.Errorf("unknown ats %q", ats)
	}
	if name == "" || board == "" {
		return fmt.Errorf("name and board must be non-empty")
	}
	if r[ats] == nil {
		r[ats] = map[string]string{}
	}
	if existing, ok := r[ats][name]; ok && existing != board {
		return fmt.Errorf("%q already registered on %s with board %q", name, ats, existing)
	}
	r[ats][name] = board
	return nil
}

// Has reports whether the board identifier is already registered under ats.
func (r Registry) Has(ats, board string) bool {
	for _, b := range r[ats] {
		if b == board {
			return true
		}
	}
	return false
}

// Boards returns the boards for an ATS sorted by company name, so scan
// order is stable across runs.
func (r Registry) Boards(ats string) []Board {
	names := make([]string, 0, len(r[ats]))
	for name := range r[ats] {
		names = append(names, name)
	}
	sort.Strings(names)

	boards := make([]Board, 0, len(names))
	for _, name := range names {
		boards = append(boards, Board{Name: name, ID: r[ats][name]})
	}
	return boards
}

// Board is a single registered company board.
type Board struct {
	Name string
	ID   string
}

// IsKnownATS reports whether ats names a supported adapter type.
func IsKnownATS(ats string) bool {
	for _, known := range KnownATS {
		if ats == known {
			return true
		}
	}
	return false
}
