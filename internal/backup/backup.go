package backup

import (
	"context"
	"log/slog"

	"github.com/sbenali/autostock/internal/state"
)

//go:generate mockgen -source=backup.go -destination=sink_mock.go -package=backup

// Sink is an external append-only store of full-state snapshots, keyed by
// creation time, with a retention policy applied through Prune.
type Sink interface {
	Store(ctx context.Context, snap *state.Snapshot) error
	Prune(ctx context.Context, keep int) error
}

// Runner ships snapshots to the configured sinks off the mutation path.
// Notify never blocks: when a backup is already in flight the notification
// is dropped, since the next one carries the full state anyway. Sink
// failures are logged and never surface to the core.
type Runner struct {
	sinks []Sink
	keep  int
	ch    chan *state.Snapshot
}

func NewRunner(keep int, sinks ...Sink) *Runner {
	return &Runner{
		sinks: sinks,
		keep:  keep,
		ch:    make(chan *state.Snapshot, 1),
	}
}

// Notify queues a snapshot for backup. Safe to call from the store's
// commit path; it returns immediately.
func (r *Runner) Notify(snap *state.Snapshot) {
	select {
	case r.ch <- snap:
	default:
	}
}

// Run consumes notifications until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-r.ch:
			r.ship(ctx, snap)
		}
	}
}

func (r *Runner) ship(ctx context.Context, snap *state.Snapshot) {
	for _, sink := range r.sinks {
		if err := sink.Store(ctx, snap); err != nil {
			slog.Error("backup sink store failed", "error", err)
			continue
		}

		if r.keep > 0 {
			if err := sink.Prune(ctx, r.keep); err != nil {
				slog.Error("backup sink prune failed", "error", err)
			}
		}
	}
}
