package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/ikrig/internal/ir"
	"github.com/roach88/ikrig/internal/scene"
)

// attrDefs loads every declaration on a node keyed by name.
func attrDefs(ctx context.Context, q querier, id scene.NodeID) (map[string]scene.AttrDef, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT def, default_value FROM attr_defs WHERE node_id = ?
	`, string(id))
	if err != nil {
		return nil, fmt.Errorf("query attr defs: %w", err)
	}
	defer rows.Close()

	defs := make(map[string]scene.AttrDef)
	for rows.Next() {
		var (
			data string
			dflt sql.NullString
		)
		if err := rows.Scan(&data, &dflt); err != nil {
			return nil, fmt.Errorf("scan attr def: %w", err)
		}
		var dfltPtr *string
		if dflt.Valid {
			dfltPtr = &dflt.String
		}
		def, err := unmarshalDef(data, dfltPtr)
		if err != nil {
			return nil, err
		}
		defs[def.Name] = def
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attr defs: %w", err)
	}
	return defs, nil
}

func isLocked(ctx context.Context, q querier, p scene.Plug) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM attr_locks WHERE node_id = ? AND attr = ?
	`, string(p.Node), p.Attr).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query lock %s: %w", p, err)
	}
	return n > 0, nil
}

// AddAttr implements scene.Scene.
func (s *Store) AddAttr(ctx context.Context, id scene.NodeID, def scene.AttrDef) error {
	if def.Name == "" {
		return fmt.Errorf("add attr: empty name: %w", scene.ErrInvalidPlug)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		n, err := readNode(ctx, tx, id)
		if err != nil {
			return err
		}
		defs, err := attrDefs(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, exists := defs[def.Name]; exists {
			return fmt.Errorf("add attr %s.%s: %w", n.name, def.Name, scene.ErrAttrExists)
		}
		if err := scene.CheckDefault(def); err != nil {
			return fmt.Errorf("add attr %s.%s: %w", n.name, def.Name, err)
		}

		data, err := marshalDef(def)
		if err != nil {
			return err
		}
		var dflt sql.NullString
		if def.Default != nil {
			v, err := marshalValue(def.Default)
			if err != nil {
				return err
			}
			dflt = sql.NullString{String: v, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attr_defs (node_id, name, def, default_value) VALUES (?, ?, ?, ?)
		`, string(id), def.Name, data, dflt); err != nil {
			return fmt.Errorf("add attr %s.%s: %w", n.name, def.Name, err)
		}
		return s.record(ctx, tx, scene.OpAddAttr, n.name, def.Name)
	})
}

// SetAttr implements scene.Scene.
func (s *Store) SetAttr(ctx context.Context, p scene.Plug, v ir.IRValue) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		n, err := readNode(ctx, tx, p.Node)
		if err != nil {
			return err
		}
		defs, err := attrDefs(ctx, tx, p.Node)
		if err != nil {
			return err
		}
		if _, _, err := scene.ValidateDeclared(defs, p.Attr); err != nil {
			return fmt.Errorf("set attr %s.%s: %w", n.name, p.Attr, err)
		}
		locked, err := isLocked(ctx, tx, p)
		if err != nil {
			return err
		}
		if locked {
			return fmt.Errorf("set attr %s.%s: %w", n.name, p.Attr, scene.ErrAttrLocked)
		}

		data, err := marshalValue(v)
		if err != nil {
			return fmt.Errorf("set attr %s.%s: %w", n.name, p.Attr, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attr_values (node_id, attr, value) VALUES (?, ?, ?)
			ON CONFLICT(node_id, attr) DO UPDATE SET value = excluded.value
		`, string(p.Node), p.Attr, data); err != nil {
			return fmt.Errorf("set attr %s.%s: %w", n.name, p.Attr, err)
		}
		return s.record(ctx, tx, scene.OpSetAttr, n.name, p.Attr)
	})
}

// Attr implements scene.Scene.
func (s *Store) Attr(ctx context.Context, p scene.Plug) (ir.IRValue, error) {
	n, err := readNode(ctx, s.db, p.Node)
	if err != nil {
		return nil, err
	}
	defs, err := attrDefs(ctx, s.db, p.Node)
	if err != nil {
		return nil, err
	}
	def, declared, err := scene.ValidateDeclared(defs, p.Attr)
	if err != nil {
		return nil, err
	}

	var data string
	err = s.db.QueryRowContext(ctx, `
		SELECT value FROM attr_values WHERE node_id = ? AND attr = ?
	`, string(p.Node), p.Attr).Scan(&data)
	switch {
	case err == nil:
		return unmarshalValue(data)
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("read attr %s.%s: %w", n.name, p.Attr, err)
	}

	if declared {
		if def.Default != nil {
			return def.Default, nil
		}
		return ir.IRNull{}, nil
	}
	return nil, fmt.Errorf("%s.%s: %w", n.name, p.Attr, scene.ErrAttrNotFound)
}

// LockAttr implements scene.Scene.
func (s *Store) LockAttr(ctx context.Context, p scene.Plug, locked bool) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		n, err := readNode(ctx, tx, p.Node)
		if err != nil {
			return err
		}
		defs, err := attrDefs(ctx, tx, p.Node)
		if err != nil {
			return err
		}
		if _, _, err := scene.ValidateDeclared(defs, p.Attr); err != nil {
			return fmt.Errorf("lock attr %s.%s: %w", n.name, p.Attr, err)
		}

		op := scene.OpLockAttr
		query := `INSERT INTO attr_locks (node_id, attr) VALUES (?, ?) ON CONFLICT DO NOTHING`
		if !locked {
			op = scene.OpUnlockAttr
			query = `DELETE FROM attr_locks WHERE node_id = ? AND attr = ?`
		}
		if _, err := tx.ExecContext(ctx, query, string(p.Node), p.Attr); err != nil {
			return fmt.Errorf("lock attr %s.%s: %w", n.name, p.Attr, err)
		}
		return s.record(ctx, tx, op, n.name, p.Attr)
	})
}

// IsLocked implements scene.Scene.
func (s *Store) IsLocked(ctx context.Context, p scene.Plug) (bool, error) {
	if _, err := readNode(ctx, s.db, p.Node); err != nil {
		return false, err
	}
	return isLocked(ctx, s.db, p)
}
