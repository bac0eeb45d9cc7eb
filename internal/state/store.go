package state

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Persister writes the snapshot wholesale. Write failures are logged and
// never roll back the in-memory mutation that triggered them; the snapshot
// is the source of truth, persistence is a best-effort mirror.
type Persister interface {
	Write(ctx context.Context, snap *Snapshot) error
}

// Store owns the aggregate snapshot. Every mutation runs as a staged-copy
// transaction: begin locks and clones the current snapshot, the workflow
// mutates the clone, commit swaps the pointer, persists and notifies
// listeners. Writers are serialized by the lock, so a single operation can
// never observe a half-applied state.
type Store struct {
	mu        sync.Mutex
	snap      *Snapshot
	persist   Persister
	listeners []func(*Snapshot)
	now       func() time.Time
}

// New wraps an initial snapshot. persist may be nil for ephemeral stores
// (tests mostly).
func New(snap *Snapshot, persist Persister) *Store {
	if snap == nil {
		snap = NewSnapshot()
	}

	return &Store{snap: snap, persist: persist, now: time.Now}
}

// Subscribe registers a listener invoked with a cloned snapshot after each
// committed mutation. Listeners must not block; backup fan-out hands the
// clone to a channel and drops when busy.
func (s *Store) Subscribe(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
}

// Current returns a clone of the live snapshot, stamped with the current
// time as its export timestamp.
func (s *Store) Current() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.snap.Clone()
	c.ExportedAt = s.now()

	return c
}

// ImportAll replaces every business collection from an imported document.
// Users and their credentials are kept so an import cannot lock the
// operator out.
func (s *Store) ImportAll(ctx context.Context, snap *Snapshot) error {
	tx := s.begin(ctx)
	defer tx.Rollback()

	users := tx.staged.Users
	tx.staged = snap.Clone()
	tx.staged.Users = users

	return tx.Commit()
}

// ClearAll empties every business collection. Users are kept for the same
// reason as ImportAll.
func (s *Store) ClearAll(ctx context.Context) error {
	tx := s.begin(ctx)
	defer tx.Rollback()

	users := tx.staged.Users
	tx.staged = NewSnapshot()
	tx.staged.Users = users

	return tx.Commit()
}

// view runs fn with the live snapshot under the read lock. fn must not
// retain references into the snapshot.
func (s *Store) view(fn func(snap *Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.snap)
}

func (s *Store) begin(ctx context.Context) *tx {
	s.mu.Lock()

	return &tx{store: s, ctx: ctx, staged: s.snap.Clone()}
}

// afterCommit persists and fans out under the still-held lock so snapshots
// reach the persister in commit order. Both paths are best-effort.
func (s *Store) afterCommit(ctx context.Context) {
	if s.persist != nil {
		if err := s.persist.Write(ctx, s.snap); err != nil {
			slog.Error("failed to persist snapshot", "error", err)
		}
	}

	if len(s.listeners) == 0 {
		return
	}

	c := s.snap.Clone()
	for _, fn := range s.listeners {
		fn(c)
	}
}
