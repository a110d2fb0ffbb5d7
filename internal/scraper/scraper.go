package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pfrederiksen/showlist-watch/internal/show"
)

const (
	DefaultURL = "https://austin.showlists.net/"
	UserAgent  = "showlist-watch/1.0 (github.com/pfrederiksen/showlist-watch)"
	Timeout    = 30 * time.Second
)

var errMissingDateID = errors.New("date section has no id")

// Scraper handles fetching and parsing the show listing
type Scraper struct {
	client *http.Client
	url    string
}

// New creates a new Scraper for the given listing URL. An empty URL selects
// DefaultURL and a non-positive timeout selects Timeout.
func New(url string, timeout time.Duration) *Scraper {
	if strings.TrimSpace(url) == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = Timeout
	}
	return &Scraper{
		client: &http.Client{
			Timeout: timeout,
		},
		url: url,
	}
}

// URL returns the listing URL the scraper fetches
func (s *Scraper) URL() string {
	return s.url
}

// Fetch retrieves the raw listing markup
func (s *Scraper) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", &FetchError{URL: s.url, Cause: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: s.url, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: s.url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: s.url, StatusCode: resp.StatusCode, Cause: fmt.Errorf("reading body: %w", err)}
	}

	return string(body), nil
}

// Shows fetches the listing and extracts every show on it
func (s *Scraper) Shows(ctx context.Context) ([]show.Show, error) {
	markup, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return parseShows(strings.NewReader(markup), s.url)
}

// parseShows extracts shows from HTML, resolving relative links against base
func parseShows(r io.Reader, base string) ([]show.Show, error) {
	doc, err := NewDocument(r)
	if err != nil {
		return nil, err
	}
	shows, err := Extract(doc)
	if err != nil {
		return nil, err
	}
	return resolveLinks(shows, base), nil
}

// resolveLinks rewrites site-relative links as absolute URLs under base.
// Links that do not parse are left as they are.
func resolveLinks(shows []show.Show, base string) []show.Show {
	baseURL, err := url.Parse(base)
	if err != nil || !baseURL.IsAbs() {
		return shows
	}
	for i := range shows {
		if shows[i].Link == "" {
			continue
		}
		ref, err := url.Parse(shows[i].Link)
		if err != nil {
			continue
		}
		shows[i].Link = baseURL.ResolveReference(ref).String()
	}
	return shows
}
