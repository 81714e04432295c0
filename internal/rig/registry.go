package rig

import (
	"context"
	"fmt"

	"github.com/roach88/ikrig/internal/ir"
	"github.com/roach88/ikrig/internal/scene"
)

// SolverInstance is the scene node shared by every handle of one topology.
type SolverInstance struct {
	Topology ir.Topology
	Node     scene.NodeID
}

// Registry hands out at most one solver node per topology for a scene.
//
// The registry is a value owned by the caller; create one per scene session.
// A solver that already exists in the scene under its canonical name is
// adopted rather than duplicated. A node of another type under that name is
// a SOLVER_CONFLICT.
type Registry struct {
	scene scene.Scene
	cache map[ir.Topology]SolverInstance
}

// NewRegistry creates an empty registry over s.
func NewRegistry(s scene.Scene) *Registry {
	return &Registry{
		scene: s,
		cache: make(map[ir.Topology]SolverInstance),
	}
}

// Get returns the solver for topo, creating it on first use.
func (r *Registry) Get(ctx context.Context, topo ir.Topology) (SolverInstance, error) {
	if inst, ok := r.cache[topo]; ok {
		return inst, nil
	}

	name := topo.SolverName()
	if name == "" {
		return SolverInstance{}, fmt.Errorf("solver for %s: unknown topology", topo)
	}

	id, found, err := r.scene.Lookup(ctx, name)
	if err != nil {
		return SolverInstance{}, fmt.Errorf("solver for %s: %w", topo, err)
	}
	if found {
		typ, err := r.scene.NodeType(ctx, id)
		if err != nil {
			return SolverInstance{}, fmt.Errorf("solver for %s: %w", topo, err)
		}
		if typ != topo.SolverNodeType() {
			return SolverInstance{}, NewSolverConflictError(id, topo.SolverNodeType(), typ)
		}
	} else {
		id, err = r.scene.CreateNode(ctx, topo.SolverNodeType(), name, "")
		if err != nil {
			return SolverInstance{}, fmt.Errorf("solver for %s: %w", topo, err)
		}
	}

	inst := SolverInstance{Topology: topo, Node: id}
	r.cache[topo] = inst
	return inst, nil
}
