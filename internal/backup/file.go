package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sbenali/autostock/internal/state"
)

const filePrefix = "autostock-backup-"

// FileSink drops dated snapshot files into a directory. One file per day:
// a second backup on the same date overwrites the first.
type FileSink struct {
	dir string
	now func() time.Time
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir, now: time.Now}
}

func (fs *FileSink) Store(_ context.Context, snap *state.Snapshot) error {
	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return fmt.Errorf("creating backup directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	name := fmt.Sprintf("%s%s.json", filePrefix, fs.now().Format(time.DateOnly))
	if err := os.WriteFile(filepath.Join(fs.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}

	return nil
}

// Prune deletes every backup file beyond the keep most recent. Dated
// filenames sort chronologically, so a name sort is a time sort.
func (fs *FileSink) Prune(_ context.Context, keep int) error {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return fmt.Errorf("listing backups: %w", err)
	}

	var names []string

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		name := e.Name()
		if strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, ".json") {
			names = append(names, name)
		}
	}

	if len(names) <= keep {
		return nil
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	for _, name := range names[keep:] {
		if err := os.Remove(filepath.Join(fs.dir, name)); err != nil {
			return fmt.Errorf("removing old backup %s: %w", name, err)
		}
	}

	return nil
}
