package scene

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces node ids.
// Implemented by UUIDv7Generator (default) and FixedGenerator/SequentialGenerator (tests).
type IDGenerator interface {
	Generate() NodeID
}

// UUIDv7Generator generates time-sortable UUIDv7 node ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 node id.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() NodeID {
	return NodeID(uuid.Must(uuid.NewV7()).String())
}

// FixedGenerator returns predetermined ids for testing.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []NodeID
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...NodeID) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined id.
//
// Panics if all ids have been consumed, to catch tests that create more
// nodes than they expect.
func (g *FixedGenerator) Generate() NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// SequentialGenerator returns prefix1, prefix2, ... and never runs out.
type SequentialGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialGenerator creates a counter-based generator.
func NewSequentialGenerator(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate returns the next id.
func (g *SequentialGenerator) Generate() NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return NodeID(fmt.Sprintf("%s%d", g.prefix, g.n))
}
