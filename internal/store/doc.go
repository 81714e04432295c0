// Package store provides a SQLite-backed scene host.
//
// Store implements scene.Scene and scene.Journaled over five tables:
//   - nodes: id, type, unique name, parent and the local matrix
//   - attr_defs: dynamic attribute declarations per node
//   - attr_values / attr_locks: values and locks keyed by full plug path
//   - connections: plug-to-plug links, one incoming link per destination
//   - journal: append-only mutation log
//
// # Ordering
//
// Every listing is ordered by an INTEGER seq column assigned on insert, never
// by timestamps, so a scene read back from disk lists nodes, connections and
// journal entries in creation order.
//
// # Encoding
//
// Matrices and attribute values are stored as canonical JSON TEXT produced by
// ir.MarshalCanonical. Whole-valued floats therefore read back as ir.IRInt;
// compare values with ir.Equal.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
