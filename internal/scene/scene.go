package scene

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/roach88/ikrig/internal/ir"
)

// NodeID is an opaque handle to a scene node.
type NodeID string

// Well-known node types.
const (
	TypeJoint      = "joint"
	TypeTransform  = "transform"
	TypeIKHandle   = "ikHandle"
	TypeEffector   = "ikEffector"
	TypeNurbsCurve = "nurbsCurve"
	TypeLocator    = "locator"
)

// Space selects the frame a translation is read in.
type Space int

const (
	SpaceWorld Space = iota
	SpaceLocal
)

// Plug addresses one attribute of a node.
type Plug struct {
	Node NodeID
	Attr string
}

// P is shorthand for a Plug literal.
func P(node NodeID, attr string) Plug {
	return Plug{Node: node, Attr: attr}
}

func (p Plug) String() string {
	return fmt.Sprintf("%s.%s", p.Node, p.Attr)
}

// Connection is a directed plug-to-plug link.
type Connection struct {
	Src Plug
	Dst Plug
}

// AttrType enumerates attribute data types.
type AttrType string

const (
	AttrDouble   AttrType = "double"
	AttrDouble3  AttrType = "double3"
	AttrInt      AttrType = "int"
	AttrBool     AttrType = "bool"
	AttrString   AttrType = "string"
	AttrEnum     AttrType = "enum"
	AttrCompound AttrType = "compound"
)

// AttrDef declares a dynamic attribute.
type AttrDef struct {
	Name     string     `json:"name"`
	Type     AttrType   `json:"type"`
	Hidden   bool       `json:"hidden,omitempty"`
	Multi    bool       `json:"multi,omitempty"`
	Children []AttrDef  `json:"children,omitempty"`
	Default  ir.IRValue `json:"-"`
}

// Child returns the named child definition of a compound attribute.
func (d AttrDef) Child(name string) (AttrDef, bool) {
	for _, c := range d.Children {
		if c.Name == name {
			return c, true
		}
	}
	return AttrDef{}, false
}

// Scene is the host capability the rigging core consumes.
//
// Implementations need not be safe for concurrent use by multiple writers;
// callers serialize rig construction against one scene.
type Scene interface {
	// CreateNode creates a node. An empty parent creates a root node.
	CreateNode(ctx context.Context, typeName, name string, parent NodeID) (NodeID, error)

	// Lookup finds a node by its unique name.
	Lookup(ctx context.Context, name string) (NodeID, bool, error)

	NodeType(ctx context.Context, id NodeID) (string, error)
	Name(ctx context.Context, id NodeID) (string, error)
	Parent(ctx context.Context, id NodeID) (NodeID, error)

	// ListNodes returns node ids in creation order, filtered by type when
	// typeFilter is non-empty.
	ListNodes(ctx context.Context, typeFilter string) ([]NodeID, error)

	WorldMatrix(ctx context.Context, id NodeID) (mgl64.Mat4, error)
	Translation(ctx context.Context, id NodeID, space Space) (mgl64.Vec3, error)

	// SetMatrix sets the node's world matrix. With skipScale the node keeps
	// its current world scale.
	SetMatrix(ctx context.Context, id NodeID, m mgl64.Mat4, skipScale bool) error

	// Connect links src to dst. A destination accepts one incoming link.
	Connect(ctx context.Context, src, dst Plug) error

	// Connections lists links touching the node, in creation order.
	Connections(ctx context.Context, id NodeID) ([]Connection, error)

	AddAttr(ctx context.Context, id NodeID, def AttrDef) error
	SetAttr(ctx context.Context, p Plug, v ir.IRValue) error
	Attr(ctx context.Context, p Plug) (ir.IRValue, error)
	LockAttr(ctx context.Context, p Plug, locked bool) error
	IsLocked(ctx context.Context, p Plug) (bool, error)

	// Ancestors returns the node's ancestors nearest first, filtered by type
	// when typeFilter is non-empty.
	Ancestors(ctx context.Context, id NodeID, typeFilter string) ([]NodeID, error)
}

// Journaled is implemented by hosts that record their mutations.
type Journaled interface {
	Journal(ctx context.Context) ([]JournalEntry, error)
}

var (
	ErrNodeNotFound     = errors.New("node not found")
	ErrDuplicateName    = errors.New("node name already exists")
	ErrAttrExists       = errors.New("attribute already exists")
	ErrAttrNotFound     = errors.New("attribute not found")
	ErrAttrLocked       = errors.New("attribute is locked")
	ErrAlreadyConnected = errors.New("destination plug already connected")
	ErrInvalidPlug      = errors.New("invalid plug path")
)

// CheckDefault verifies def's default value matches its type.
func CheckDefault(def AttrDef) error {
	if def.Default == nil {
		return nil
	}
	switch def.Type {
	case AttrDouble3:
		if _, err := ir.AsVec3(def.Default); err != nil {
			return fmt.Errorf("attr %q default: %w", def.Name, err)
		}
	case AttrDouble:
		if _, err := ir.AsFloat(def.Default); err != nil {
			return fmt.Errorf("attr %q default: %w", def.Name, err)
		}
	case AttrInt, AttrEnum:
		if _, ok := def.Default.(ir.IRInt); !ok {
			return fmt.Errorf("attr %q default: expected int, got %T", def.Name, def.Default)
		}
	}
	return nil
}
