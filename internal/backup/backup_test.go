package backup_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sbenali/autostock/internal/backup"
	"github.com/sbenali/autostock/internal/catalog"
	"github.com/sbenali/autostock/internal/state"
)

func TestFileSink_Store(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")

	snap := state.NewSnapshot()
	snap.Products = []catalog.Product{{ID: "p1", Reference: "FLT-001"}}

	sink := backup.NewFileSink(dir)
	require.NoError(t, sink.Store(context.Background(), snap))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	name := entries[0].Name()
	assert.Contains(t, name, time.Now().Format(time.DateOnly))

	// A second backup on the same day overwrites rather than piling up.
	require.NoError(t, sink.Store(context.Background(), snap))

	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileSink_Prune(t *testing.T) {
	dir := t.TempDir()

	days := []string{"2024-05-01", "2024-05-02", "2024-05-03", "2024-05-04", "2024-05-05"}
	for _, day := range days {
		name := "autostock-backup-" + day + ".json"
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}

	// Unrelated files are never touched.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o644))

	require.NoError(t, backup.NewFileSink(dir).Prune(context.Background(), 2))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}

	assert.ElementsMatch(t, []string{
		"autostock-backup-2024-05-04.json",
		"autostock-backup-2024-05-05.json",
		"notes.txt",
	}, names)
}

func TestRunner_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	snap := state.NewSnapshot()
	done := make(chan struct{})

	sink := backup.NewMockSink(ctrl)
	sink.EXPECT().Store(gomock.Any(), snap).Return(nil)
	sink.EXPECT().
		Prune(gomock.Any(), 3).
		DoAndReturn(func(context.Context, int) error {
			close(done)
			return nil
		})

	runner := backup.NewRunner(3, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runner.Run(ctx)

	runner.Notify(snap)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("backup never shipped")
	}
}

func TestRunner_StoreFailureSkipsPrune(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	done := make(chan struct{})

	sink := backup.NewMockSink(ctrl)
	sink.EXPECT().
		Store(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *state.Snapshot) error {
			close(done)
			return errors.New("disk full")
		})

	runner := backup.NewRunner(3, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runner.Run(ctx)

	runner.Notify(state.NewSnapshot())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("store was never attempted")
	}
}

func TestRunner_NotifyDropsWhenBusy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	done := make(chan struct{})

	// No consumer running yet: the buffer holds one snapshot, the second
	// notification is dropped silently, so the sink sees exactly one ship.
	sink := backup.NewMockSink(ctrl)
	sink.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	sink.EXPECT().
		Prune(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, int) error {
			close(done)
			return nil
		}).
		Times(1)

	runner := backup.NewRunner(3, sink)

	runner.Notify(state.NewSnapshot())
	runner.Notify(state.NewSnapshot())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runner.Run(ctx)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("backup never shipped")
	}
}
