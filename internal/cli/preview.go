package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pfrederiksen/showlist-watch/internal/filter"
	"github.com/pfrederiksen/showlist-watch/internal/logger"
	"github.com/pfrederiksen/showlist-watch/internal/pipeline"
	"github.com/pfrederiksen/showlist-watch/internal/scraper"
	"github.com/pfrederiksen/showlist-watch/internal/show"
	"github.com/pfrederiksen/showlist-watch/internal/storage"
	"github.com/spf13/cobra"
)

var (
	flagSort    string
	flagNewOnly bool
)

// previewRow is one listed show in preview output
type previewRow struct {
	show.Show
	New bool `json:"new"`
}

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the current listing and which shows are new",
		Long: `Fetch the listing and compare it with the state file without sending
email or saving anything. Delivery settings are not required.`,
		Args: cobra.NoArgs,
		RunE: runPreview,
	}

	cmd.Flags().StringVar(&flagSort, "sort", "date", "Sort order: date, venue or title")
	cmd.Flags().BoolVar(&flagNewOnly, "new-only", false, "Only list shows that are not yet known")

	return cmd
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, format, err := loadConfig()
	if err != nil {
		return err
	}
	order, err := ParseSortOrder(flagSort)
	if err != nil {
		return err
	}

	log := newLogger(cfg, cmd.ErrOrStderr())
	logger.SetDefault(log)

	store, err := storage.New(cfg.State.Path)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	runner := &pipeline.Runner{
		Source: scraper.New(cfg.Source.URL, time.Duration(cfg.Source.TimeoutSeconds)*time.Second),
		Store:  store,
		Filter: filter.New(cfg.Filter.ExcludedVenues),
		Logger: log,
	}

	result, err := runner.Plan(cmd.Context())
	if err != nil {
		return err
	}

	rows := previewRows(result, order, flagNewOnly)
	if format == FormatJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(rows)
	}
	return writePreviewTable(cmd.OutOrStdout(), rows, len(result.New))
}

// previewRows marks new shows and orders the listing
func previewRows(result *pipeline.Result, order SortOrder, newOnly bool) []previewRow {
	isNew := show.NewKnownSet(show.CanonicalLines(result.New))

	shows := make([]show.Show, len(result.All))
	copy(shows, result.All)
	sortShows(shows, order)

	rows := make([]previewRow, 0, len(shows))
	for _, s := range shows {
		fresh := isNew.Contains(s)
		if newOnly && !fresh {
			continue
		}
		rows = append(rows, previewRow{Show: s, New: fresh})
	}
	return rows
}

func writePreviewTable(w io.Writer, rows []previewRow, newCount int) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No shows listed.")
		return err
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"", "Date", "Title", "Venue"})
	for _, r := range rows {
		marker := ""
		if r.New {
			marker = "NEW"
		}
		tw.AppendRow(table.Row{marker, r.DisplayDate, r.Title, r.Venue})
	}
	tw.AppendFooter(table.Row{"", "", fmt.Sprintf("%d new", newCount), ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignCenter, AlignHeader: text.AlignLeft},
	})

	_, err := fmt.Fprintln(w, tw.Render())
	return err
}
