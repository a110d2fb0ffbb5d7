package scraper

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShows_Fixture(t *testing.T) {
	f, err := os.Open("testdata/listing.html")
	require.NoError(t, err, "failed to load test fixture")
	defer f.Close()

	shows, err := parseShows(f, DefaultURL)
	require.NoError(t, err)

	want := []struct {
		dateKey, display, title, venue, link string
	}{
		{"20250115", "Wed Jan 15", "Band A", "Mohawk", "https://austin.showlists.net/shows/1"},
		{"20250115", "Wed Jan 15", "Band B & Friends", "The Parish", "https://austin.showlists.net/shows/2"},
		{"20250116", "Thu Jan 16", "Band C", "", "https://austin.showlists.net/shows/3"},
		{"20250116", "Thu Jan 16", "Band D", "Emo's", "https://austin.showlists.net/shows/4"},
	}

	require.Len(t, shows, len(want))
	for i, w := range want {
		s := shows[i]
		assert.Equal(t, w.dateKey, s.DateKey, "show[%d]", i)
		assert.Equal(t, w.display, s.DisplayDate, "show[%d]", i)
		assert.Equal(t, w.title, s.Title, "show[%d]", i)
		assert.Equal(t, w.venue, s.Venue, "show[%d]", i)
		assert.Equal(t, w.link, s.Link, "show[%d]", i)
	}
}

func TestParseShows_EdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantCount int
		wantErr   bool
		wantTitle string
		wantVenue string
		wantLink  string
	}{
		{
			name:      "no date sections",
			html:      `<html><body><p>No shows</p></body></html>`,
			wantCount: 0,
		},
		{
			name:      "item without title attribute is dropped",
			html:      `<div class="show-date" id="20250115"><ul><li><a href="/x">X</a><a class="venue-title">Mohawk</a></li></ul></div>`,
			wantCount: 0,
		},
		{
			name:      "empty title attribute is dropped",
			html:      `<div class="show-date" id="20250115"><ul><li><a data-show-title="" href="/x">X</a></li></ul></div>`,
			wantCount: 0,
		},
		{
			name:      "whitespace title attribute is dropped",
			html:      `<div class="show-date" id="20250115"><ul><li><a data-show-title="   " href="/x">X</a></li></ul></div>`,
			wantCount: 0,
		},
		{
			name:      "missing venue yields empty venue",
			html:      `<div class="show-date" id="20250115"><ul><li><a data-show-title="Solo" href="/s">Solo</a></li></ul></div>`,
			wantCount: 1,
			wantTitle: "Solo",
			wantLink:  "https://austin.showlists.net/s",
		},
		{
			name:      "missing href yields empty link",
			html:      `<div class="show-date" id="20250115"><ul><li><a data-show-title="Solo">Solo</a></li></ul></div>`,
			wantCount: 1,
			wantTitle: "Solo",
		},
		{
			name:      "venue text is trimmed and entities decoded",
			html:      `<div class="show-date" id="20250115"><ul><li><a data-show-title="Show">Show</a><a class="venue-title">  Hole &amp; Wall  </a></li></ul></div>`,
			wantCount: 1,
			wantTitle: "Show",
			wantVenue: "Hole & Wall",
		},
		{
			name: "venue wrapped across lines",
			html: `<div class="show-date" id="20250115"><ul><li><a data-show-title="Show">Show</a><a class="venue-title">The
				Mohawk</a></li></ul></div>`,
			wantCount: 1,
			wantTitle: "Show",
			wantVenue: "The Mohawk",
		},
		{
			name:      "same link carries title and venue",
			html:      `<div class="show-date" id="20250115"><ul><li><a class="venue-title" data-show-title="Combo" href="https://x.test/c">Stubb's</a></li></ul></div>`,
			wantCount: 1,
			wantTitle: "Combo",
			wantVenue: "Stubb's",
			wantLink:  "https://x.test/c",
		},
		{
			name:    "unparsable date id",
			html:    `<div class="show-date" id="2025-01-15"><ul><li><a data-show-title="X">X</a></li></ul></div>`,
			wantErr: true,
		},
		{
			name:    "missing date id",
			html:    `<div class="show-date"><ul></ul></div>`,
			wantErr: true,
		},
		{
			name:    "bad date id fails even with no items",
			html:    `<div class="show-date" id="20251301"></div>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shows, err := parseShows(strings.NewReader(tt.html), DefaultURL)

			if tt.wantErr {
				var parseErr *ParseError
				require.ErrorAs(t, err, &parseErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, shows, tt.wantCount)

			if tt.wantCount > 0 {
				s := shows[0]
				assert.Equal(t, tt.wantTitle, s.Title)
				assert.Equal(t, tt.wantVenue, s.Venue)
				assert.Equal(t, tt.wantLink, s.Link)
			}
		})
	}
}

// fakeLink and friends exercise Extract without any HTML library.
type fakeLink struct {
	attrs map[string]string
	class string
	text  string
}

func (l fakeLink) Attr(name string) (string, bool) {
	v, ok := l.attrs[name]
	return v, ok
}

func (l fakeLink) HasClass(class string) bool { return l.class == class }
func (l fakeLink) Text() string               { return l.text }

type fakeItem []Link

func (i fakeItem) Links() []Link { return i }

type fakeSection struct {
	id    string
	hasID bool
	items []Item
}

func (s fakeSection) DateID() (string, bool) { return s.id, s.hasID }
func (s fakeSection) Items() []Item          { return s.items }

type fakeDocument []Section

func (d fakeDocument) Sections() []Section { return d }

func TestExtract_Interface(t *testing.T) {
	doc := fakeDocument{
		fakeSection{
			id:    "20250115",
			hasID: true,
			items: []Item{
				fakeItem{
					fakeLink{class: VenueClass, text: "Mohawk"},
					fakeLink{attrs: map[string]string{TitleAttr: "Band A", "href": "http://a"}},
				},
				fakeItem{},
				fakeItem{fakeLink{attrs: map[string]string{"href": "http://untitled"}}},
			},
		},
	}

	shows, err := Extract(doc)
	require.NoError(t, err)
	require.Len(t, shows, 1)

	got := shows[0]
	assert.Equal(t, "Band A", got.Title)
	assert.Equal(t, "Mohawk", got.Venue)
	assert.Equal(t, "http://a", got.Link)
	assert.Equal(t, "Wed Jan 15", got.DisplayDate)
}

func TestExtract_LastTitledLinkWins(t *testing.T) {
	doc := fakeDocument{
		fakeSection{
			id:    "20250115",
			hasID: true,
			items: []Item{
				fakeItem{
					fakeLink{attrs: map[string]string{TitleAttr: "First", "href": "/1"}},
					fakeLink{attrs: map[string]string{TitleAttr: "Second", "href": "/2"}},
				},
			},
		},
	}

	shows, err := Extract(doc)
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.Equal(t, "Second", shows[0].Title)
	assert.Equal(t, "/2", shows[0].Link)
}

func TestExtract_MissingDateID(t *testing.T) {
	_, err := Extract(fakeDocument{fakeSection{hasID: false}})

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.ErrorIs(t, err, errMissingDateID)
}
