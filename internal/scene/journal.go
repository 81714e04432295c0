package scene

import (
	"sync"

	"github.com/roach88/ikrig/internal/ir"
)

// Journal operations.
const (
	OpCreateNode = "create_node"
	OpSetMatrix  = "set_matrix"
	OpConnect    = "connect"
	OpAddAttr    = "add_attr"
	OpSetAttr    = "set_attr"
	OpLockAttr   = "lock_attr"
	OpUnlockAttr = "unlock_attr"
)

// JournalEntry records one scene mutation. Node and Target use node names,
// not ids, so journals compare across hosts and runs.
type JournalEntry struct {
	Seq    int64  `json:"seq"`
	Op     string `json:"op"`
	Node   string `json:"node"`
	Target string `json:"target,omitempty"`
}

// Canonical returns the entry as an IRObject for golden traces and digests.
func (e JournalEntry) Canonical() ir.IRObject {
	obj := ir.IRObject{
		"seq":  ir.IRInt(e.Seq),
		"op":   ir.IRString(e.Op),
		"node": ir.IRString(e.Node),
	}
	if e.Target != "" {
		obj["target"] = ir.IRString(e.Target)
	}
	return obj
}

// Clock stamps journal entries.
// testutil.DeterministicClock satisfies it.
type Clock interface {
	Next() int64
}

// counter is the default Clock: a monotonic logical counter starting at 1.
type counter struct {
	mu  sync.Mutex
	seq int64
}

func (c *counter) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}
