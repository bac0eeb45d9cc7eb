package backup

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sbenali/autostock/internal/state"
)

// PostgresSink mirrors snapshots into an app_backups table:
//
//	CREATE TABLE app_backups (
//	    id         BIGSERIAL PRIMARY KEY,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    data       JSONB NOT NULL
//	);
type PostgresSink struct {
	db *sql.DB
}

func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

func (ps *PostgresSink) Store(ctx context.Context, snap *state.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	query := `INSERT INTO app_backups (data) VALUES ($1)`

	if _, err := ps.db.ExecContext(ctx, query, data); err != nil {
		return fmt.Errorf("inserting backup: %w", err)
	}

	return nil
}

// Prune deletes all but the keep most recent snapshots.
func (ps *PostgresSink) Prune(ctx context.Context, keep int) error {
	query := `
		DELETE FROM app_backups
		WHERE id NOT IN (
			SELECT id FROM app_backups
			ORDER BY created_at DESC
			LIMIT $1
		)
	`

	if _, err := ps.db.ExecContext(ctx, query, keep); err != nil {
		return fmt.Errorf("pruning backups: %w", err)
	}

	return nil
}
