package scraper

import (
	"strings"

	"github.com/pfrederiksen/showlist-watch/internal/show"
)

const (
	// TitleAttr marks the anchor that names the show and links to it
	TitleAttr = "data-show-title"
	// VenueClass marks the anchor whose text is the venue name
	VenueClass = "venue-title"
)

// Extract walks the document and builds shows in document order.
// Items without links or without a titled link are skipped. A date section
// whose identifier is missing or not a YYYYMMDD date fails the whole
// extraction with a *ParseError.
func Extract(doc Document) ([]show.Show, error) {
	shows := make([]show.Show, 0)

	for _, section := range doc.Sections() {
		dateID, ok := section.DateID()
		if !ok || dateID == "" {
			return nil, &ParseError{Cause: errMissingDateID}
		}
		if _, err := show.ParseDateKey(dateID); err != nil {
			return nil, &ParseError{DateID: dateID, Cause: err}
		}

		for _, item := range section.Items() {
			title, link, venue, found := extractItem(item)
			if !found {
				continue
			}

			s, ok, err := show.New(dateID, title, venue, link)
			if err != nil {
				return nil, &ParseError{DateID: dateID, Cause: err}
			}
			if !ok {
				continue
			}
			shows = append(shows, s)
		}
	}

	return shows, nil
}

// extractItem scans an item's links. The title/link and the venue are taken
// independently; when several links qualify the last one wins.
func extractItem(item Item) (title, link, venue string, found bool) {
	links := item.Links()
	if len(links) == 0 {
		return "", "", "", false
	}

	for _, a := range links {
		if t, ok := a.Attr(TitleAttr); ok && t != "" {
			title = strings.TrimSpace(t)
			href, _ := a.Attr("href")
			link = strings.TrimSpace(href)
			found = true
		}
		if a.HasClass(VenueClass) {
			venue = strings.TrimSpace(a.Text())
		}
	}

	return title, link, venue, found && title != ""
}
