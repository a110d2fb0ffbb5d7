// Package pipeline runs one extract, normalize, diff, notify, persist pass.
//
// The state file is only rewritten after the notification step succeeds or
// is skipped because nothing is new. A failed notification returns a
// *NotifyError and leaves the state untouched, so "new" is always computed
// against the last successfully notified state and a re-run retries the same
// shows.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/showlist-watch/internal/filter"
	"github.com/pfrederiksen/showlist-watch/internal/logger"
	"github.com/pfrederiksen/showlist-watch/internal/notifier"
	"github.com/pfrederiksen/showlist-watch/internal/show"
)

// Source produces the current show listing
type Source interface {
	Shows(ctx context.Context) ([]show.Show, error)
}

// Store loads and replaces the known show set
type Store interface {
	Load() (show.KnownSet, error)
	SaveShows(shows []show.Show) error
}

// delivery is implemented by notifiers that report a provider message ID
type delivery interface {
	MessageID() string
}

// Mode selects which side effects a run performs
type Mode int

const (
	// ModeNotify notifies about new shows, then persists
	ModeNotify Mode = iota
	// ModeDryRun notifies through the configured notifier but never persists
	ModeDryRun
	// ModeRefresh persists the current listing without notifying
	ModeRefresh
)

func (m Mode) String() string {
	switch m {
	case ModeNotify:
		return "notify"
	case ModeDryRun:
		return "dry-run"
	case ModeRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// NotifyError reports a failed notification. State was not advanced.
type NotifyError struct {
	Count int
	Cause error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("notifying %d new show(s): %v", e.Count, e.Cause)
}

func (e *NotifyError) Unwrap() error {
	return e.Cause
}

// Result describes a completed pass
type Result struct {
	CheckedAt time.Time
	Known     int
	Fetched   int
	All       []show.Show
	New       []show.Show
	Notified  bool
	Persisted bool
}

// Runner wires the pipeline stages together
type Runner struct {
	Source   Source
	Store    Store
	Notifier notifier.Notifier
	Filter   *filter.Filter
	Mode     Mode
	Logger   *logger.Logger
	Metrics  *logger.Metrics
}

func (r *Runner) log() *logger.Logger {
	if r.Logger == nil {
		return logger.Default()
	}
	return r.Logger
}

func (r *Runner) metrics() *logger.Metrics {
	if r.Metrics == nil {
		r.Metrics = logger.NewMetrics()
	}
	return r.Metrics
}

// Plan loads state, fetches the listing, and computes the diff without
// notifying or persisting anything.
func (r *Runner) Plan(ctx context.Context) (*Result, error) {
	log := r.log()
	m := r.metrics()

	var known show.KnownSet
	if err := m.Time("state.load", func() error {
		var err error
		known, err = r.Store.Load()
		return err
	}); err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	log.Debug("Loaded known shows", logger.Fields{"known": known.Len()})

	var raw []show.Show
	if err := m.Time("fetch", func() error {
		var err error
		raw, err = r.Source.Shows(ctx)
		return err
	}); err != nil {
		return nil, err
	}
	log.Debug("Fetched listing", logger.Fields{"shows": len(raw)})

	normalized := show.Normalize(r.Filter.Apply(raw), nil)
	diff := show.Diff(known, normalized)

	if log.Enabled(logger.LevelDebug) {
		for _, s := range diff.New {
			log.Debug("New show", logger.Fields{"show": s.CanonicalLine()})
		}
	}

	m.AddCounter("shows.fetched", int64(len(raw)))
	m.AddCounter("shows.excluded", int64(len(raw)-len(normalized)))
	m.AddCounter("shows.current", int64(len(diff.All)))
	m.AddCounter("shows.new", int64(len(diff.New)))

	return &Result{
		CheckedAt: time.Now().UTC(),
		Known:     known.Len(),
		Fetched:   len(raw),
		All:       diff.All,
		New:       diff.New,
	}, nil
}

// Run performs a full pass according to the runner's mode. The first failing
// stage aborts the run before the state file is touched.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	log := r.log()
	m := r.metrics()

	result, err := r.Plan(ctx)
	if err != nil {
		return nil, err
	}

	if r.Mode != ModeRefresh && len(result.New) > 0 {
		if r.Notifier == nil {
			return result, &NotifyError{Count: len(result.New), Cause: fmt.Errorf("no notifier configured")}
		}
		if err := m.Time("notify", func() error {
			return r.Notifier.Notify(ctx, result.New)
		}); err != nil {
			log.Error("Notification failed; state left unchanged", logger.Fields{"new_shows": len(result.New)}, err)
			return result, &NotifyError{Count: len(result.New), Cause: err}
		}
		result.Notified = true
		m.IncrCounter("notifications.sent")

		fields := logger.Fields{"new_shows": len(result.New)}
		if d, ok := r.Notifier.(delivery); ok && d.MessageID() != "" {
			fields["message_id"] = d.MessageID()
		}
		log.Info("Notified new shows", fields)
	}

	if r.Mode == ModeDryRun {
		log.Info("Dry run; state not saved", logger.Fields{"shows": len(result.All)})
		return result, nil
	}

	if err := m.Time("state.save", func() error {
		return r.Store.SaveShows(result.All)
	}); err != nil {
		return result, fmt.Errorf("saving state: %w", err)
	}
	result.Persisted = true
	log.Debug("Saved state", logger.Fields{"shows": len(result.All)})

	return result, nil
}
