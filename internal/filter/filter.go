// Package filter provides show filtering for the listing watcher.
//
// Operators keep a list of venues whose shows they never want to hear about.
// A show whose venue exactly matches an excluded venue is dropped before
// diffing, so it never reaches the state file or a notification.
//
// Example usage:
//
//	f := filter.New([]string{"Emo's", "Moody Center"})
//	kept := f.Apply(shows)
//
// The zero value and a filter with no venues match every show.
package filter

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/showlist-watch/internal/show"
)

// Filter represents show filtering criteria
type Filter struct {
	// Venues are compared exactly (case-sensitive) after trimming
	ExcludedVenues []string `json:"excluded_venues,omitempty" toml:"excluded_venues"`

	excluded map[string]struct{}
}

// New creates a filter excluding the given venues. Blank entries are ignored.
func New(excludedVenues []string) *Filter {
	f := &Filter{ExcludedVenues: make([]string, 0, len(excludedVenues))}
	for _, v := range excludedVenues {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		f.ExcludedVenues = append(f.ExcludedVenues, v)
	}
	f.index()
	return f
}

func (f *Filter) index() {
	f.excluded = make(map[string]struct{}, len(f.ExcludedVenues))
	for _, v := range f.ExcludedVenues {
		f.excluded[v] = struct{}{}
	}
}

// IsEmpty returns true if the filter excludes nothing
func (f *Filter) IsEmpty() bool {
	return f == nil || len(f.ExcludedVenues) == 0
}

// Matches returns true if the show should be kept
func (f *Filter) Matches(s show.Show) bool {
	if f.IsEmpty() {
		return true
	}
	if f.excluded == nil {
		f.index()
	}
	_, excluded := f.excluded[s.Venue]
	return !excluded
}

// Apply returns the shows the filter keeps, preserving order. A nil filter
// keeps everything. The input slice is not modified.
func (f *Filter) Apply(shows []show.Show) []show.Show {
	kept := make([]show.Show, 0, len(shows))
	for _, s := range shows {
		if f.Matches(s) {
			kept = append(kept, s)
		}
	}
	return kept
}

// String returns a human-readable description of the filter
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No venues excluded"
	}
	return fmt.Sprintf("Excluding %d venue(s): %s", len(f.ExcludedVenues), strings.Join(f.ExcludedVenues, ", "))
}
