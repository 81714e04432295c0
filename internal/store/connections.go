package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/ikrig/internal/scene"
)

// Connect implements scene.Scene.
// A destination plug accepts one incoming connection; the UNIQUE constraint
// backs the explicit check.
func (s *Store) Connect(ctx context.Context, src, dst scene.Plug) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		srcNode, err := readNode(ctx, tx, src.Node)
		if err != nil {
			return fmt.Errorf("connect %s: %w", src, err)
		}
		dstNode, err := readNode(ctx, tx, dst.Node)
		if err != nil {
			return fmt.Errorf("connect %s: %w", dst, err)
		}
		srcName := srcNode.name + "." + src.Attr
		dstName := dstNode.name + "." + dst.Attr

		var n int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM connections WHERE dst_node = ? AND dst_attr = ?
		`, string(dst.Node), dst.Attr).Scan(&n); err != nil {
			return fmt.Errorf("connect %s -> %s: %w", srcName, dstName, err)
		}
		if n > 0 {
			return fmt.Errorf("connect %s -> %s: %w", srcName, dstName, scene.ErrAlreadyConnected)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO connections (src_node, src_attr, dst_node, dst_attr) VALUES (?, ?, ?, ?)
		`, string(src.Node), src.Attr, string(dst.Node), dst.Attr); err != nil {
			return fmt.Errorf("connect %s -> %s: %w", srcName, dstName, err)
		}
		return s.record(ctx, tx, scene.OpConnect, srcName, dstName)
	})
}

// Connections implements scene.Scene.
// Ordered by seq ASC, which is creation order.
func (s *Store) Connections(ctx context.Context, id scene.NodeID) ([]scene.Connection, error) {
	if _, err := readNode(ctx, s.db, id); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT src_node, src_attr, dst_node, dst_attr FROM connections
		WHERE src_node = ? OR dst_node = ?
		ORDER BY seq ASC
	`, string(id), string(id))
	if err != nil {
		return nil, fmt.Errorf("query connections: %w", err)
	}
	defer rows.Close()

	out := []scene.Connection{}
	for rows.Next() {
		var srcNode, srcAttr, dstNode, dstAttr string
		if err := rows.Scan(&srcNode, &srcAttr, &dstNode, &dstAttr); err != nil {
			return nil, fmt.Errorf("scan connection: %w", err)
		}
		out = append(out, scene.Connection{
			Src: scene.P(scene.NodeID(srcNode), srcAttr),
			Dst: scene.P(scene.NodeID(dstNode), dstAttr),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate connections: %w", err)
	}
	return out, nil
}
