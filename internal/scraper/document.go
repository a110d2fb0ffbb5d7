package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	sectionSelector = "div.show-date"
	itemSelector    = "li"
	linkSelector    = "a"
)

// Document is a parsed listing page
type Document interface {
	Sections() []Section
}

// Section is one date block of the listing
type Section interface {
	// DateID returns the machine-readable date identifier, if present
	DateID() (string, bool)
	Items() []Item
}

// Item is one listing entry within a date section
type Item interface {
	Links() []Link
}

// Link is an anchor element within an item
type Link interface {
	Attr(name string) (string, bool)
	HasClass(class string) bool
	Text() string
}

// NewDocument parses HTML into a Document backed by goquery
func NewDocument(r io.Reader) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{Cause: fmt.Errorf("parsing HTML: %w", err)}
	}
	return &htmlDocument{doc: doc}, nil
}

type htmlDocument struct {
	doc *goquery.Document
}

func (d *htmlDocument) Sections() []Section {
	var sections []Section
	d.doc.Find(sectionSelector).Each(func(_ int, sel *goquery.Selection) {
		sections = append(sections, htmlSection{sel: sel})
	})
	return sections
}

type htmlSection struct {
	sel *goquery.Selection
}

func (s htmlSection) DateID() (string, bool) {
	id, ok := s.sel.Attr("id")
	return strings.TrimSpace(id), ok
}

func (s htmlSection) Items() []Item {
	var items []Item
	s.sel.Find(itemSelector).Each(func(_ int, sel *goquery.Selection) {
		items = append(items, htmlItem{sel: sel})
	})
	return items
}

type htmlItem struct {
	sel *goquery.Selection
}

func (i htmlItem) Links() []Link {
	var links []Link
	i.sel.Find(linkSelector).Each(func(_ int, sel *goquery.Selection) {
		links = append(links, htmlLink{sel: sel})
	})
	return links
}

type htmlLink struct {
	sel *goquery.Selection
}

func (l htmlLink) Attr(name string) (string, bool) {
	return l.sel.Attr(name)
}

func (l htmlLink) HasClass(class string) bool {
	return l.sel.HasClass(class)
}

func (l htmlLink) Text() string {
	return l.sel.Text()
}
