package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/ikrig/internal/scene"
)

// record appends a journal entry inside tx.
func (s *Store) record(ctx context.Context, tx *sql.Tx, op, node, target string) error {
	var seq int64
	if s.clock != nil {
		seq = s.clock.Next()
	} else if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM journal`).Scan(&seq); err != nil {
		return fmt.Errorf("journal seq: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO journal (seq, op, node, target) VALUES (?, ?, ?, ?)
	`, seq, op, node, target); err != nil {
		return fmt.Errorf("journal %s %s: %w", op, node, err)
	}
	return nil
}

// Journal implements scene.Journaled.
// Returns an empty slice (not nil) for a fresh database.
func (s *Store) Journal(ctx context.Context) ([]scene.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, op, node, target FROM journal ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	out := []scene.JournalEntry{}
	for rows.Next() {
		var e scene.JournalEntry
		if err := rows.Scan(&e.Seq, &e.Op, &e.Node, &e.Target); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return out, nil
}
