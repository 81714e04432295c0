package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/roach88/ikrig/internal/ikmath"
	"github.com/roach88/ikrig/internal/scene"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type nodeRow struct {
	id     scene.NodeID
	typ    string
	name   string
	parent scene.NodeID
	local  mgl64.Mat4
}

func readNode(ctx context.Context, q querier, id scene.NodeID) (nodeRow, error) {
	var (
		n      nodeRow
		parent sql.NullString
		local  string
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, type, name, parent, local FROM nodes WHERE id = ?
	`, string(id)).Scan(&n.id, &n.typ, &n.name, &parent, &local)
	if errors.Is(err, sql.ErrNoRows) {
		return nodeRow{}, fmt.Errorf("%s: %w", id, scene.ErrNodeNotFound)
	}
	if err != nil {
		return nodeRow{}, fmt.Errorf("read node %s: %w", id, err)
	}
	n.parent = scene.NodeID(parent.String)
	if n.local, err = unmarshalMatrix(local); err != nil {
		return nodeRow{}, fmt.Errorf("read node %s: %w", id, err)
	}
	return n, nil
}

// lineage returns the node followed by its ancestors, nearest first.
func lineage(ctx context.Context, q querier, id scene.NodeID) ([]nodeRow, error) {
	rows, err := q.QueryContext(ctx, `
		WITH RECURSIVE chain(id, type, name, parent, local, depth) AS (
			SELECT id, type, name, parent, local, 0 FROM nodes WHERE id = ?
			UNION ALL
			SELECT n.id, n.type, n.name, n.parent, n.local, c.depth + 1
			FROM nodes n JOIN chain c ON n.id = c.parent
		)
		SELECT id, type, name, parent, local FROM chain ORDER BY depth ASC
	`, string(id))
	if err != nil {
		return nil, fmt.Errorf("query lineage: %w", err)
	}
	defer rows.Close()

	var out []nodeRow
	for rows.Next() {
		var (
			n      nodeRow
			parent sql.NullString
			local  string
		)
		if err := rows.Scan(&n.id, &n.typ, &n.name, &parent, &local); err != nil {
			return nil, fmt.Errorf("scan lineage: %w", err)
		}
		n.parent = scene.NodeID(parent.String)
		if n.local, err = unmarshalMatrix(local); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lineage: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", id, scene.ErrNodeNotFound)
	}
	return out, nil
}

func worldMatrix(ctx context.Context, q querier, id scene.NodeID) (mgl64.Mat4, error) {
	chain, err := lineage(ctx, q, id)
	if err != nil {
		return mgl64.Mat4{}, err
	}
	world := mgl64.Ident4()
	for _, n := range chain {
		world = n.local.Mul4(world)
	}
	return world, nil
}

// CreateNode implements scene.Scene.
func (s *Store) CreateNode(ctx context.Context, typeName, name string, parent scene.NodeID) (scene.NodeID, error) {
	if name == "" {
		return "", fmt.Errorf("create node: empty name")
	}

	id := s.ids.Generate()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, ok, err := lookup(ctx, tx, name); err != nil {
			return err
		} else if ok {
			return fmt.Errorf("create node %q: %w", name, scene.ErrDuplicateName)
		}

		var parentCol sql.NullString
		if parent != "" {
			if _, err := readNode(ctx, tx, parent); err != nil {
				return fmt.Errorf("create node %q: parent: %w", name, err)
			}
			parentCol = sql.NullString{String: string(parent), Valid: true}
		}

		local, err := marshalMatrix(mgl64.Ident4())
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO nodes (id, type, name, parent, local) VALUES (?, ?, ?, ?, ?)
		`, string(id), typeName, name, parentCol, local); err != nil {
			return fmt.Errorf("create node %q: %w", name, err)
		}
		return s.record(ctx, tx, scene.OpCreateNode, name, typeName)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func lookup(ctx context.Context, q querier, name string) (scene.NodeID, bool, error) {
	var id string
	err := q.QueryRowContext(ctx, `SELECT id FROM nodes WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup %q: %w", name, err)
	}
	return scene.NodeID(id), true, nil
}

// Lookup implements scene.Scene.
func (s *Store) Lookup(ctx context.Context, name string) (scene.NodeID, bool, error) {
	return lookup(ctx, s.db, name)
}

// NodeType implements scene.Scene.
func (s *Store) NodeType(ctx context.Context, id scene.NodeID) (string, error) {
	n, err := readNode(ctx, s.db, id)
	if err != nil {
		return "", err
	}
	return n.typ, nil
}

// Name implements scene.Scene.
func (s *Store) Name(ctx context.Context, id scene.NodeID) (string, error) {
	n, err := readNode(ctx, s.db, id)
	if err != nil {
		return "", err
	}
	return n.name, nil
}

// Parent implements scene.Scene.
func (s *Store) Parent(ctx context.Context, id scene.NodeID) (scene.NodeID, error) {
	n, err := readNode(ctx, s.db, id)
	if err != nil {
		return "", err
	}
	return n.parent, nil
}

// ListNodes implements scene.Scene.
// Ordered by seq ASC, which is creation order.
func (s *Store) ListNodes(ctx context.Context, typeFilter string) ([]scene.NodeID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM nodes
		WHERE ? = '' OR type = ?
		ORDER BY seq ASC
	`, typeFilter, typeFilter)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	defer rows.Close()

	out := []scene.NodeID{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		out = append(out, scene.NodeID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}
	return out, nil
}

// Ancestors implements scene.Scene.
func (s *Store) Ancestors(ctx context.Context, id scene.NodeID, typeFilter string) ([]scene.NodeID, error) {
	chain, err := lineage(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	out := []scene.NodeID{}
	for _, n := range chain[1:] {
		if typeFilter == "" || n.typ == typeFilter {
			out = append(out, n.id)
		}
	}
	return out, nil
}

// WorldMatrix implements scene.Scene.
func (s *Store) WorldMatrix(ctx context.Context, id scene.NodeID) (mgl64.Mat4, error) {
	return worldMatrix(ctx, s.db, id)
}

// Translation implements scene.Scene.
func (s *Store) Translation(ctx context.Context, id scene.NodeID, space scene.Space) (mgl64.Vec3, error) {
	if space == scene.SpaceLocal {
		n, err := readNode(ctx, s.db, id)
		if err != nil {
			return mgl64.Vec3{}, err
		}
		return ikmath.Translation(n.local), nil
	}
	world, err := worldMatrix(ctx, s.db, id)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return ikmath.Translation(world), nil
}

// SetMatrix implements scene.Scene.
func (s *Store) SetMatrix(ctx context.Context, id scene.NodeID, world mgl64.Mat4, skipScale bool) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		chain, err := lineage(ctx, tx, id)
		if err != nil {
			return err
		}
		parentWorld := mgl64.Ident4()
		for _, n := range chain[1:] {
			parentWorld = n.local.Mul4(parentWorld)
		}
		current := parentWorld.Mul4(chain[0].local)

		local := scene.LocalFromWorld(parentWorld, scene.ResolveWorld(current, world, skipScale))
		return s.writeLocal(ctx, tx, chain[0], local, "")
	})
}

// SetLocalMatrix sets a node's local matrix directly.
func (s *Store) SetLocalMatrix(ctx context.Context, id scene.NodeID, local mgl64.Mat4) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		n, err := readNode(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.writeLocal(ctx, tx, n, local, "local")
	})
}

func (s *Store) writeLocal(ctx context.Context, tx *sql.Tx, n nodeRow, local mgl64.Mat4, target string) error {
	data, err := marshalMatrix(local)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE nodes SET local = ? WHERE id = ?`, data, string(n.id)); err != nil {
		return fmt.Errorf("set matrix %s: %w", n.name, err)
	}
	return s.record(ctx, tx, scene.OpSetMatrix, n.name, target)
}
