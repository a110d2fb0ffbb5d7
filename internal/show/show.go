package show

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// DateKeyLayout is the layout of the machine-readable date identifier.
	DateKeyLayout = "20060102"
	// DisplayLayout renders a date key for humans, e.g. "Sat Jan 15".
	DisplayLayout = "Mon Jan 02"
)

// Show represents one scheduled performance
type Show struct {
	DateKey     string `json:"date_key"`
	DisplayDate string `json:"display_date"`
	Title       string `json:"title"`
	Venue       string `json:"venue,omitempty"`
	Link        string `json:"link,omitempty"`
}

// New builds a Show from raw listing values. Title and venue whitespace is
// folded to single spaces. ok is false when the title is empty; such entries
// are dropped rather than treated as errors. An error is
// returned only when dateKey is not a valid YYYYMMDD date.
func New(dateKey, title, venue, link string) (s Show, ok bool, err error) {
	display, err := FormatDateKey(dateKey)
	if err != nil {
		return Show{}, false, err
	}

	title = foldSpace(title)
	if title == "" {
		return Show{}, false, nil
	}

	return Show{
		DateKey:     strings.TrimSpace(dateKey),
		DisplayDate: display,
		Title:       title,
		Venue:       foldSpace(venue),
		Link:        strings.TrimSpace(link),
	}, true, nil
}

// foldSpace trims v and collapses every internal whitespace run, line breaks
// included, to a single space. A canonical line must fit on one line.
func foldSpace(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

// FormatDateKey converts a YYYYMMDD key into its display form
func FormatDateKey(dateKey string) (string, error) {
	t, err := ParseDateKey(dateKey)
	if err != nil {
		return "", err
	}
	return t.Format(DisplayLayout), nil
}

// ParseDateKey parses a YYYYMMDD key
func ParseDateKey(dateKey string) (time.Time, error) {
	t, err := time.Parse(DateKeyLayout, strings.TrimSpace(dateKey))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", dateKey, err)
	}
	return t, nil
}

// CanonicalLine returns the identity string used for dedup and persistence
func (s Show) CanonicalLine() string {
	return fmt.Sprintf("%s - %s @ %s", s.DisplayDate, s.Title, s.Venue)
}

// Less reports whether s sorts before other: date key first, title second.
func (s Show) Less(other Show) bool {
	if s.DateKey != other.DateKey {
		return s.DateKey < other.DateKey
	}
	return s.Title < other.Title
}

// Sort returns a sorted copy of shows. Equal keys keep their input order.
func Sort(shows []Show) []Show {
	sorted := make([]Show, len(shows))
	copy(sorted, shows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Less(sorted[j])
	})
	return sorted
}

// Normalize drops shows rejected by keep and returns the survivors sorted.
// A nil keep retains everything. The input slice is left untouched.
func Normalize(shows []Show, keep func(Show) bool) []Show {
	kept := make([]Show, 0, len(shows))
	for _, s := range shows {
		if keep != nil && !keep(s) {
			continue
		}
		kept = append(kept, s)
	}
	return Sort(kept)
}

// CanonicalLines projects shows onto their canonical lines, in order
func CanonicalLines(shows []Show) []string {
	lines := make([]string, 0, len(shows))
	for _, s := range shows {
		lines = append(lines, s.CanonicalLine())
	}
	return lines
}
