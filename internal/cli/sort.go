package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/showlist-watch/internal/show"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate  SortOrder = "date"
	SortByVenue SortOrder = "venue"
	SortByTitle SortOrder = "title"
)

// ParseSortOrder validates a --sort value
func ParseSortOrder(value string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(value))); order {
	case SortByDate, SortByVenue, SortByTitle:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'date', 'venue' or 'title')", value)
	}
}

// sortShows sorts shows in place. Ties fall back to canonical order.
func sortShows(shows []show.Show, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(shows, func(i, j int) bool {
			return shows[i].Less(shows[j])
		})
	case SortByVenue:
		sort.SliceStable(shows, func(i, j int) bool {
			vi, vj := strings.ToLower(shows[i].Venue), strings.ToLower(shows[j].Venue)
			if vi != vj {
				return vi < vj
			}
			return shows[i].Less(shows[j])
		})
	case SortByTitle:
		sort.SliceStable(shows, func(i, j int) bool {
			ti, tj := strings.ToLower(shows[i].Title), strings.ToLower(shows[j].Title)
			if ti != tj {
				return ti < tj
			}
			return shows[i].Less(shows[j])
		})
	}
}
