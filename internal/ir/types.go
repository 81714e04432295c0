package ir

import (
	"fmt"
)

// Topology is the IK solver variant used for a chain.
type Topology int

const (
	// SingleChain solves 2-joint chains without a pole.
	SingleChain Topology = iota

	// RotationPlane solves 3-joint chains with a pole-defined bend plane.
	RotationPlane

	// Spline drives a chain along a curve. Never selected by joint count.
	Spline

	// Spring solves chains longer than three joints.
	Spring
)

// Topologies lists every topology in declaration order.
var Topologies = []Topology{SingleChain, RotationPlane, Spline, Spring}

var topologyNames = map[Topology]string{
	SingleChain:   "single_chain",
	RotationPlane: "rotation_plane",
	Spline:        "spline",
	Spring:        "spring",
}

var solverNames = map[Topology]string{
	SingleChain:   "ikSCsolver",
	RotationPlane: "ikRPsolver",
	Spline:        "ikSplineSolver",
	Spring:        "ikSpringSolver",
}

func (t Topology) String() string {
	if name, ok := topologyNames[t]; ok {
		return name
	}
	return fmt.Sprintf("topology(%d)", int(t))
}

// SolverName is the canonical scene name of the shared solver object.
func (t Topology) SolverName() string {
	return solverNames[t]
}

// SolverNodeType is the scene node type of the shared solver object. Hosts
// use the canonical name as the type name.
func (t Topology) SolverNodeType() string {
	return solverNames[t]
}

// TopologyForSolverType maps a solver node type back to its topology.
func TopologyForSolverType(nodeType string) (Topology, bool) {
	for _, t := range Topologies {
		if solverNames[t] == nodeType {
			return t, true
		}
	}
	return 0, false
}

// ParseTopology is the inverse of Topology.String.
func ParseTopology(s string) (Topology, error) {
	for _, t := range Topologies {
		if topologyNames[t] == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown topology %q: must be one of single_chain, rotation_plane, spline, spring", s)
}

// TopologyForJointCount maps a chain's joint count onto a topology.
// 2 joints is SingleChain, 3 is RotationPlane, anything longer is Spring.
func TopologyForJointCount(n int) (Topology, error) {
	switch {
	case n < 2:
		return 0, fmt.Errorf("chain of %d joints: need at least 2", n)
	case n == 2:
		return SingleChain, nil
	case n == 3:
		return RotationPlane, nil
	default:
		return Spring, nil
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Topology) MarshalText() ([]byte, error) {
	name, ok := topologyNames[t]
	if !ok {
		return nil, fmt.Errorf("unknown topology %d", int(t))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Topology) UnmarshalText(text []byte) error {
	parsed, err := ParseTopology(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ChainSpec is a compiled rig definition for one chain.
type ChainSpec struct {
	// Name identifies the rig definition.
	Name string `json:"name"`

	// Start and End are scene node names of the chain's first and last joint.
	Start string `json:"start"`
	End   string `json:"end"`

	// Topology overrides the joint-count selection when set.
	Topology *Topology `json:"topology,omitempty"`

	// Curve names the driving curve. Required for Spline.
	Curve string `json:"curve,omitempty"`

	// SoftDistance enables soft IK on the handle when > 0.
	SoftDistance float64 `json:"soft_distance,omitempty"`
}

// Canonical returns the spec as an IRObject for hashing.
func (s ChainSpec) Canonical() IRObject {
	obj := IRObject{
		"name":  IRString(s.Name),
		"start": IRString(s.Start),
		"end":   IRString(s.End),
	}
	if s.Topology != nil {
		obj["topology"] = IRString(s.Topology.String())
	}
	if s.Curve != "" {
		obj["curve"] = IRString(s.Curve)
	}
	if s.SoftDistance > 0 {
		obj["soft_distance"] = IRFloat(s.SoftDistance)
	}
	return obj
}
