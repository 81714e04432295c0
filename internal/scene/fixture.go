package scene

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/roach88/ikrig/internal/ikmath"
	"github.com/roach88/ikrig/internal/ir"
)

// Fixture describes a scene to build: an ordered node list where parents
// precede their children.
//
//	nodes:
//	  - name: shoulder
//	    translate: [0, 0, 0]
//	  - name: elbow
//	    parent: shoulder
//	    translate: [5, 0, 0]
//	    rotate: [0, 0, -10]
//	  - name: arm_crv
//	    type: nurbsCurve
type Fixture struct {
	Nodes []FixtureNode `yaml:"nodes"`
}

// FixtureNode is one node of a Fixture. Transforms are local to the parent;
// rotate is XYZ Euler in degrees.
type FixtureNode struct {
	Name      string         `yaml:"name"`
	Type      string         `yaml:"type,omitempty"` // defaults to joint
	Parent    string         `yaml:"parent,omitempty"`
	Translate []float64      `yaml:"translate,omitempty"`
	Rotate    []float64      `yaml:"rotate,omitempty"`
	Scale     []float64      `yaml:"scale,omitempty"`
	Attrs     map[string]any `yaml:"attrs,omitempty"`
}

// LoadFixture reads a YAML fixture from disk.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture parses YAML fixture content, rejecting unknown fields.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks names are unique, parents are declared earlier and vectors
// have three components.
func (f *Fixture) Validate() error {
	seen := make(map[string]bool, len(f.Nodes))
	for i, n := range f.Nodes {
		if n.Name == "" {
			return fmt.Errorf("fixture node %d: name is required", i)
		}
		if seen[n.Name] {
			return fmt.Errorf("fixture node %q: duplicate name", n.Name)
		}
		if n.Parent != "" && !seen[n.Parent] {
			return fmt.Errorf("fixture node %q: parent %q must be declared before it", n.Name, n.Parent)
		}
		for field, v := range map[string][]float64{"translate": n.Translate, "rotate": n.Rotate, "scale": n.Scale} {
			if v != nil && len(v) != 3 {
				return fmt.Errorf("fixture node %q: %s needs 3 components, got %d", n.Name, field, len(v))
			}
		}
		seen[n.Name] = true
	}
	return nil
}

// LocalMatrix returns T * R * S for the node.
func (n FixtureNode) LocalMatrix() mgl64.Mat4 {
	m := mgl64.Ident4()
	if n.Translate != nil {
		m = mgl64.Translate3D(n.Translate[0], n.Translate[1], n.Translate[2])
	}
	if n.Rotate != nil {
		m = m.Mul4(ikmath.EulerXYZ(
			mgl64.DegToRad(n.Rotate[0]),
			mgl64.DegToRad(n.Rotate[1]),
			mgl64.DegToRad(n.Rotate[2]),
		))
	}
	if n.Scale != nil {
		m = m.Mul4(mgl64.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2]))
	}
	return m
}

// Populate creates the fixture's nodes in s and returns their ids by name.
func (f *Fixture) Populate(ctx context.Context, s Scene) (map[string]NodeID, error) {
	ids := make(map[string]NodeID, len(f.Nodes))
	worlds := make(map[string]mgl64.Mat4, len(f.Nodes))

	for _, n := range f.Nodes {
		typ := n.Type
		if typ == "" {
			typ = TypeJoint
		}
		parentWorld := mgl64.Ident4()
		var parent NodeID
		if n.Parent != "" {
			parent = ids[n.Parent]
			parentWorld = worlds[n.Parent]
		}

		id, err := s.CreateNode(ctx, typ, n.Name, parent)
		if err != nil {
			return nil, fmt.Errorf("populate %q: %w", n.Name, err)
		}
		ids[n.Name] = id

		world := parentWorld.Mul4(n.LocalMatrix())
		worlds[n.Name] = world
		if world != mgl64.Ident4() {
			if err := s.SetMatrix(ctx, id, world, false); err != nil {
				return nil, fmt.Errorf("populate %q: %w", n.Name, err)
			}
		}

		for _, attr := range slices.Sorted(maps.Keys(n.Attrs)) {
			v, err := ir.FromAny(n.Attrs[attr])
			if err != nil {
				return nil, fmt.Errorf("populate %q attr %q: %w", n.Name, attr, err)
			}
			if err := s.SetAttr(ctx, P(id, attr), v); err != nil {
				return nil, fmt.Errorf("populate %q: %w", n.Name, err)
			}
		}
	}
	return ids, nil
}
