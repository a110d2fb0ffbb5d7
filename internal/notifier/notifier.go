package notifier

import (
	"context"

	"github.com/pfrederiksen/showlist-watch/internal/show"
)

// Notifier defines the interface for announcing new shows
type Notifier interface {
	// Notify announces the given shows. Callers skip it when there are none.
	Notify(ctx context.Context, shows []show.Show) error
}

// State tracks a notifier through one delivery attempt
type State int

const (
	StateIdle State = iota
	StateSending
	StateDelivered
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateDelivered:
		return "delivered"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
