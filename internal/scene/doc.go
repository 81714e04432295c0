// Package scene defines the host scene-graph port consumed by the rigging
// core, plus an in-memory host and YAML scene fixtures.
//
// The core never owns scene lifecycle. It creates nodes, reads and writes
// world transforms, declares attributes and connects plugs through the
// Scene interface. Two hosts implement it:
//   - Memory: a mutex-guarded in-process scene used by tests, the harness
//     and the one-shot CLI commands
//   - store.Store: the same contract persisted in SQLite
//
// # Transforms
//
// Every node carries a local matrix. World matrices are the product of the
// parent chain's local matrices. SetMatrix takes a world matrix and stores
// the equivalent local one; with skipScale the node keeps its current world
// scale.
//
// # Attributes
//
// Attribute paths follow the host convention:
//
//	stickiness
//	springAngleBias[1].springAngleBias_Position
//
// Attributes declared with AddAttr are validated (child names of compound
// multis, locks). Undeclared attribute paths are treated as host built-ins and
// accept any value.
//
// # Journal
//
// Both hosts record every mutation as a JournalEntry stamped by a logical
// clock, never by wall time. Journals feed golden traces and the CLI.
package scene
