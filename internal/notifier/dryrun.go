package notifier

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/showlist-watch/internal/show"
)

// DryRunNotifier prints what would be emailed without sending anything
type DryRunNotifier struct {
	w  io.Writer
	to []string
}

// NewDryRunNotifier creates a new dry-run notifier writing to w
func NewDryRunNotifier(w io.Writer, to []string) *DryRunNotifier {
	return &DryRunNotifier{w: w, to: to}
}

// Notify prints the email that would be sent
func (n *DryRunNotifier) Notify(_ context.Context, shows []show.Show) error {
	if len(shows) == 0 {
		return nil
	}

	to := strings.Join(n.to, ", ")
	if to == "" {
		to = "(no recipients configured)"
	}

	if _, err := fmt.Fprintf(n.w, "--- Email (dry run) ---\nTo: %s\nSubject: %s\n\n%s\n",
		to, FormatSubject(len(shows)), FormatText(shows)); err != nil {
		return fmt.Errorf("writing dry run output: %w", err)
	}
	return nil
}
