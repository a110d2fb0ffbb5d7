// Package scraper provides HTTP fetching and HTML parsing for the show listing page.
//
// The listing page is organized as a sequence of date sections
// (<div class="show-date" id="YYYYMMDD">), each holding list items with
// anchors. The anchor carrying a data-show-title attribute names the show and
// links to its detail page; the anchor with the venue-title class names the
// venue. Extraction runs against the narrow Document interface so any markup
// library able to answer those queries can stand in for goquery.
package scraper
