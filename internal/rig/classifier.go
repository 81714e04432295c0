package rig

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/ikrig/internal/ir"
	"github.com/roach88/ikrig/internal/scene"
)

// Chain is an ordered joint list from start to end inclusive. Each element
// is the direct joint ancestor of the next.
type Chain []scene.NodeID

// Start returns the first joint.
func (c Chain) Start() scene.NodeID { return c[0] }

// End returns the last joint.
func (c Chain) End() scene.NodeID { return c[len(c)-1] }

// Intermediate returns the joints strictly between start and end.
func (c Chain) Intermediate() []scene.NodeID {
	if len(c) < 3 {
		return nil
	}
	return c[1 : len(c)-1]
}

// Classification is the result of classifying a chain.
type Classification struct {
	Topology ir.Topology
	Chain    Chain
}

// Classifier selects a topology from the joint path between two joints.
type Classifier struct {
	scene scene.Scene
}

// NewClassifier creates a classifier reading from s.
func NewClassifier(s scene.Scene) *Classifier {
	return &Classifier{scene: s}
}

// Classify walks end's joint ancestors looking for start. Two joints select
// SingleChain, three RotationPlane, more Spring. Spline is never returned.
//
// A start joint outside end's joint ancestry fails with a DISJOINT_CHAIN
// RigError. Non-joint nodes between the two are skipped.
func (c *Classifier) Classify(ctx context.Context, start, end scene.NodeID) (Classification, error) {
	ancestors, err := c.scene.Ancestors(ctx, end, scene.TypeJoint)
	if err != nil {
		return Classification{}, fmt.Errorf("classify: %w", err)
	}

	idx := slices.Index(ancestors, start)
	if idx < 0 {
		return Classification{}, NewDisjointChainError(start, end)
	}

	// ancestors is nearest first: reverse the prefix up to start.
	chain := make(Chain, 0, idx+2)
	for i := idx; i >= 0; i-- {
		chain = append(chain, ancestors[i])
	}
	chain = append(chain, end)

	topo, err := ir.TopologyForJointCount(len(chain))
	if err != nil {
		return Classification{}, fmt.Errorf("classify: %w", err)
	}
	return Classification{Topology: topo, Chain: chain}, nil
}
