package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/showlist-watch/internal/pipeline"
	"github.com/pfrederiksen/showlist-watch/internal/show"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt  time.Time   `json:"checked_at"`
	Mode       string      `json:"mode"`
	KnownCount int         `json:"known_count"`
	ShowCount  int         `json:"show_count"`
	NewShows   []show.Show `json:"new_shows"`
	NewCount   int         `json:"new_count"`
	Notified   bool        `json:"notified"`
	Persisted  bool        `json:"persisted"`
}

// NewOutputResult converts a pipeline result for output
func NewOutputResult(result *pipeline.Result, mode pipeline.Mode) *OutputResult {
	out := &OutputResult{
		CheckedAt:  result.CheckedAt,
		Mode:       mode.String(),
		KnownCount: result.Known,
		ShowCount:  len(result.All),
		NewShows:   result.New,
		NewCount:   len(result.New),
		Notified:   result.Notified,
		Persisted:  result.Persisted,
	}
	if out.NewShows == nil {
		out.NewShows = []show.Show{}
	}
	// In refresh mode nothing is reported as new
	if mode == pipeline.ModeRefresh {
		out.NewShows = []show.Show{}
		out.NewCount = 0
	}
	return out
}

// WriteOutput writes the result in the requested format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.Mode == pipeline.ModeRefresh.String() {
		_, err := fmt.Fprintf(w, "State refreshed: %d show(s) recorded.\n", result.ShowCount)
		return err
	}

	if result.NewCount == 0 {
		fmt.Fprintln(w, "No new shows found.")
	} else {
		for _, s := range result.NewShows {
			fmt.Fprintf(w, "NEW: %s\n", s.CanonicalLine())
			if verbose && s.Link != "" {
				fmt.Fprintf(w, "     Link: %s\n", s.Link)
			}
		}
		fmt.Fprintf(w, "\nTotal: %d new of %d listed\n", result.NewCount, result.ShowCount)
	}

	if result.Mode == pipeline.ModeDryRun.String() {
		fmt.Fprintln(w, "Dry run: no email sent, state not saved.")
	}

	return nil
}
