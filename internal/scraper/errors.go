package scraper

import "fmt"

// FetchError reports a failure to retrieve the listing page: a transport
// error, a timeout, or a non-200 response.
type FetchError struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("fetching %s: unexpected status code: %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// ParseError reports markup that does not have the expected structure, most
// commonly a date section whose identifier is not a YYYYMMDD date.
type ParseError struct {
	DateID string
	Cause  error
}

func (e *ParseError) Error() string {
	if e.DateID != "" {
		return fmt.Sprintf("parsing date section %q: %v", e.DateID, e.Cause)
	}
	return fmt.Sprintf("parsing listing: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
