package scene

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/roach88/ikrig/internal/ikmath"
	"github.com/roach88/ikrig/internal/ir"
)

type memNode struct {
	id     NodeID
	typ    string
	name   string
	parent NodeID
	local  mgl64.Mat4
	defs   map[string]AttrDef
	values map[string]ir.IRValue
	locked map[string]bool
}

// Memory is an in-process Scene.
//
// Thread-safety: all methods take an internal mutex so the journal stays
// consistent, but rig construction still expects a single writer.
type Memory struct {
	mu      sync.Mutex
	nodes   map[NodeID]*memNode
	order   []NodeID
	byName  map[string]NodeID
	conns   []Connection
	journal []JournalEntry
	ids     IDGenerator
	clock   Clock
}

// MemoryOption configures a Memory scene.
type MemoryOption func(*Memory)

// WithIDGenerator sets the node id generator (default UUIDv7Generator).
func WithIDGenerator(g IDGenerator) MemoryOption {
	return func(m *Memory) {
		m.ids = g
	}
}

// WithClock sets the journal clock (default: counter starting at 1).
func WithClock(c Clock) MemoryOption {
	return func(m *Memory) {
		m.clock = c
	}
}

// NewMemory creates an empty in-memory scene.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		nodes:  make(map[NodeID]*memNode),
		byName: make(map[string]NodeID),
		ids:    UUIDv7Generator{},
		clock:  &counter{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ Scene = (*Memory)(nil)
var _ Journaled = (*Memory)(nil)

func (m *Memory) node(id NodeID) (*memNode, error) {
	n, ok := m.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNodeNotFound)
	}
	return n, nil
}

func (m *Memory) record(op string, node NodeID, target string) {
	name := string(node)
	if n, ok := m.nodes[node]; ok {
		name = n.name
	}
	m.journal = append(m.journal, JournalEntry{
		Seq:    m.clock.Next(),
		Op:     op,
		Node:   name,
		Target: target,
	})
}

// plugName renders a plug with the node's name for journals.
func (m *Memory) plugName(p Plug) string {
	if n, ok := m.nodes[p.Node]; ok {
		return n.name + "." + p.Attr
	}
	return p.String()
}

func (m *Memory) worldLocked(id NodeID) (mgl64.Mat4, error) {
	world := mgl64.Ident4()
	for cur := id; cur != ""; {
		n, err := m.node(cur)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		world = n.local.Mul4(world)
		cur = n.parent
	}
	return world, nil
}

// CreateNode implements Scene.
func (m *Memory) CreateNode(ctx context.Context, typeName, name string, parent NodeID) (NodeID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		return "", fmt.Errorf("create node: empty name")
	}
	if _, exists := m.byName[name]; exists {
		return "", fmt.Errorf("create node %q: %w", name, ErrDuplicateName)
	}
	if parent != "" {
		if _, err := m.node(parent); err != nil {
			return "", fmt.Errorf("create node %q: parent: %w", name, err)
		}
	}

	id := m.ids.Generate()
	m.nodes[id] = &memNode{
		id:     id,
		typ:    typeName,
		name:   name,
		parent: parent,
		local:  mgl64.Ident4(),
		defs:   make(map[string]AttrDef),
		values: make(map[string]ir.IRValue),
		locked: make(map[string]bool),
	}
	m.order = append(m.order, id)
	m.byName[name] = id
	m.record(OpCreateNode, id, typeName)
	return id, nil
}

// Lookup implements Scene.
func (m *Memory) Lookup(ctx context.Context, name string) (NodeID, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byName[name]
	return id, ok, nil
}

// NodeType implements Scene.
func (m *Memory) NodeType(ctx context.Context, id NodeID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.node(id)
	if err != nil {
		return "", err
	}
	return n.typ, nil
}

// Name implements Scene.
func (m *Memory) Name(ctx context.Context, id NodeID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.node(id)
	if err != nil {
		return "", err
	}
	return n.name, nil
}

// Parent implements Scene.
func (m *Memory) Parent(ctx context.Context, id NodeID) (NodeID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.node(id)
	if err != nil {
		return "", err
	}
	return n.parent, nil
}

// ListNodes implements Scene.
func (m *Memory) ListNodes(ctx context.Context, typeFilter string) ([]NodeID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []NodeID{}
	for _, id := range m.order {
		if typeFilter == "" || m.nodes[id].typ == typeFilter {
			out = append(out, id)
		}
	}
	return out, nil
}

// WorldMatrix implements Scene.
func (m *Memory) WorldMatrix(ctx context.Context, id NodeID) (mgl64.Mat4, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.worldLocked(id)
}

// Translation implements Scene.
func (m *Memory) Translation(ctx context.Context, id NodeID, space Space) (mgl64.Vec3, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if space == SpaceLocal {
		n, err := m.node(id)
		if err != nil {
			return mgl64.Vec3{}, err
		}
		return ikmath.Translation(n.local), nil
	}
	world, err := m.worldLocked(id)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return ikmath.Translation(world), nil
}

// SetMatrix implements Scene.
func (m *Memory) SetMatrix(ctx context.Context, id NodeID, world mgl64.Mat4, skipScale bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, err := m.node(id)
	if err != nil {
		return err
	}
	current, err := m.worldLocked(id)
	if err != nil {
		return err
	}
	parentWorld := mgl64.Ident4()
	if n.parent != "" {
		if parentWorld, err = m.worldLocked(n.parent); err != nil {
			return err
		}
	}

	n.local = LocalFromWorld(parentWorld, ResolveWorld(current, world, skipScale))
	m.record(OpSetMatrix, id, "")
	return nil
}

// SetLocalMatrix sets a node's local matrix directly. Used by fixtures.
func (m *Memory) SetLocalMatrix(ctx context.Context, id NodeID, local mgl64.Mat4) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, err := m.node(id)
	if err != nil {
		return err
	}
	n.local = local
	m.record(OpSetMatrix, id, "local")
	return nil
}

// Connect implements Scene.
func (m *Memory) Connect(ctx context.Context, src, dst Plug) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.node(src.Node); err != nil {
		return fmt.Errorf("connect %s: %w", src, err)
	}
	if _, err := m.node(dst.Node); err != nil {
		return fmt.Errorf("connect %s: %w", dst, err)
	}
	for _, c := range m.conns {
		if c.Dst == dst {
			return fmt.Errorf("connect %s -> %s: %w", m.plugName(src), m.plugName(dst), ErrAlreadyConnected)
		}
	}

	m.conns = append(m.conns, Connection{Src: src, Dst: dst})
	m.journal = append(m.journal, JournalEntry{
		Seq:    m.clock.Next(),
		Op:     OpConnect,
		Node:   m.plugName(src),
		Target: m.plugName(dst),
	})
	return nil
}

// Connections implements Scene.
func (m *Memory) Connections(ctx context.Context, id NodeID) ([]Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.node(id); err != nil {
		return nil, err
	}
	out := []Connection{}
	for _, c := range m.conns {
		if c.Src.Node == id || c.Dst.Node == id {
			out = append(out, c)
		}
	}
	return out, nil
}

// AddAttr implements Scene.
func (m *Memory) AddAttr(ctx context.Context, id NodeID, def AttrDef) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, err := m.node(id)
	if err != nil {
		return err
	}
	if def.Name == "" {
		return fmt.Errorf("add attr: empty name: %w", ErrInvalidPlug)
	}
	if _, exists := n.defs[def.Name]; exists {
		return fmt.Errorf("add attr %s.%s: %w", n.name, def.Name, ErrAttrExists)
	}
	if err := CheckDefault(def); err != nil {
		return fmt.Errorf("add attr %s.%s: %w", n.name, def.Name, err)
	}

	n.defs[def.Name] = def
	m.record(OpAddAttr, id, def.Name)
	return nil
}

// SetAttr implements Scene.
func (m *Memory) SetAttr(ctx context.Context, p Plug, v ir.IRValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, err := m.node(p.Node)
	if err != nil {
		return err
	}
	if _, _, err := ValidateDeclared(n.defs, p.Attr); err != nil {
		return fmt.Errorf("set attr %s: %w", m.plugName(p), err)
	}
	if n.locked[p.Attr] {
		return fmt.Errorf("set attr %s: %w", m.plugName(p), ErrAttrLocked)
	}

	n.values[p.Attr] = v
	m.record(OpSetAttr, p.Node, p.Attr)
	return nil
}

// Attr implements Scene.
func (m *Memory) Attr(ctx context.Context, p Plug) (ir.IRValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, err := m.node(p.Node)
	if err != nil {
		return nil, err
	}
	def, declared, err := ValidateDeclared(n.defs, p.Attr)
	if err != nil {
		return nil, err
	}
	if v, ok := n.values[p.Attr]; ok {
		return v, nil
	}
	if declared {
		if def.Default != nil {
			return def.Default, nil
		}
		return ir.IRNull{}, nil
	}
	return nil, fmt.Errorf("%s: %w", m.plugName(p), ErrAttrNotFound)
}

// LockAttr implements Scene.
func (m *Memory) LockAttr(ctx context.Context, p Plug, locked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, err := m.node(p.Node)
	if err != nil {
		return err
	}
	if _, _, err := ValidateDeclared(n.defs, p.Attr); err != nil {
		return fmt.Errorf("lock attr %s: %w", m.plugName(p), err)
	}

	op := OpLockAttr
	if locked {
		n.locked[p.Attr] = true
	} else {
		delete(n.locked, p.Attr)
		op = OpUnlockAttr
	}
	m.record(op, p.Node, p.Attr)
	return nil
}

// IsLocked implements Scene.
func (m *Memory) IsLocked(ctx context.Context, p Plug) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, err := m.node(p.Node)
	if err != nil {
		return false, err
	}
	return n.locked[p.Attr], nil
}

// Ancestors implements Scene.
func (m *Memory) Ancestors(ctx context.Context, id NodeID, typeFilter string) ([]NodeID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, err := m.node(id)
	if err != nil {
		return nil, err
	}

	out := []NodeID{}
	for cur := n.parent; cur != ""; {
		a, err := m.node(cur)
		if err != nil {
			return nil, err
		}
		if typeFilter == "" || a.typ == typeFilter {
			out = append(out, cur)
		}
		cur = a.parent
	}
	return out, nil
}

// Journal implements Journaled.
func (m *Memory) Journal(ctx context.Context) ([]JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]JournalEntry, len(m.journal))
	copy(out, m.journal)
	return out, nil
}
