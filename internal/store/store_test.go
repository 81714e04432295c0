package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ikrig/internal/ikmath"
	"github.com/roach88/ikrig/internal/ir"
	"github.com/roach88/ikrig/internal/scene"
	"github.com/roach88/ikrig/internal/testutil"
)

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	require.NoError(t, s.verifyPragma("journal_mode", "wal"))
	require.NoError(t, s.verifyPragma("foreign_keys", "1"))
	require.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	require.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	require.NoError(t, s2.verifyPragma("user_version", "1"))
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "scene.db"))
	assert.Error(t, err)
}

func TestClose_Nil(t *testing.T) {
	s := &Store{}
	assert.NoError(t, s.Close())
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "scene.db")

	s, err := Open(path, WithIDGenerator(scene.NewSequentialGenerator("n")))
	require.NoError(t, err)

	a, err := s.CreateNode(ctx, scene.TypeJoint, "a", "")
	require.NoError(t, err)
	b, err := s.CreateNode(ctx, scene.TypeJoint, "b", a)
	require.NoError(t, err)
	require.NoError(t, s.SetMatrix(ctx, b, mgl64.Translate3D(4, 5, 6), false))
	require.NoError(t, s.AddAttr(ctx, b, scene.AttrDef{Name: "restPoleVector", Type: scene.AttrDouble3, Hidden: true}))
	require.NoError(t, s.SetAttr(ctx, scene.P(b, "restPoleVector"), ir.Vec3(mgl64.Vec3{0, -1, 0.5})))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	id, ok, err := s.Lookup(ctx, "b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, b, id)

	pos, err := s.Translation(ctx, b, scene.SpaceWorld)
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{4, 5, 6}, pos)

	v, err := s.Attr(ctx, scene.P(b, "restPoleVector"))
	require.NoError(t, err)
	assert.True(t, ir.Equal(ir.Vec3(mgl64.Vec3{0, -1, 0.5}), v), "got %v", v)

	journal, err := s.Journal(ctx)
	require.NoError(t, err)
	assert.Len(t, journal, 5)

	// New entries continue the sequence after reopening.
	_, err = s.CreateNode(ctx, scene.TypeLocator, "pole", "")
	require.NoError(t, err)
	journal, err = s.Journal(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), journal[5].Seq)
}

func TestStore_CreateErrors(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	createTestJoint(t, s, "a", "")

	_, err := s.CreateNode(ctx, scene.TypeJoint, "a", "")
	assert.ErrorIs(t, err, scene.ErrDuplicateName)

	_, err = s.CreateNode(ctx, scene.TypeJoint, "b", "ghost")
	assert.ErrorIs(t, err, scene.ErrNodeNotFound)

	_, err = s.CreateNode(ctx, scene.TypeJoint, "", "")
	assert.Error(t, err)

	_, err = s.NodeType(ctx, "ghost")
	assert.ErrorIs(t, err, scene.ErrNodeNotFound)

	journal, err := s.Journal(ctx)
	require.NoError(t, err)
	assert.Len(t, journal, 1, "failed creates leave no journal entries")
}

func TestStore_NodeQueries(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	grp, err := s.CreateNode(ctx, scene.TypeTransform, "grp", "")
	require.NoError(t, err)
	j1 := createTestJoint(t, s, "j1", grp)
	j2 := createTestJoint(t, s, "j2", j1)
	j3 := createTestJoint(t, s, "j3", j2)

	name, err := s.Name(ctx, j2)
	require.NoError(t, err)
	assert.Equal(t, "j2", name)

	parent, err := s.Parent(ctx, j1)
	require.NoError(t, err)
	assert.Equal(t, grp, parent)

	parent, err = s.Parent(ctx, grp)
	require.NoError(t, err)
	assert.Equal(t, scene.NodeID(""), parent)

	joints, err := s.ListNodes(ctx, scene.TypeJoint)
	require.NoError(t, err)
	assert.Equal(t, []scene.NodeID{j1, j2, j3}, joints)

	all, err := s.ListNodes(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []scene.NodeID{grp, j1, j2, j3}, all)

	anc, err := s.Ancestors(ctx, j3, "")
	require.NoError(t, err)
	assert.Equal(t, []scene.NodeID{j2, j1, grp}, anc)

	anc, err = s.Ancestors(ctx, j3, scene.TypeJoint)
	require.NoError(t, err)
	assert.Equal(t, []scene.NodeID{j2, j1}, anc)

	anc, err = s.Ancestors(ctx, grp, "")
	require.NoError(t, err)
	assert.Empty(t, anc)

	_, err = s.Ancestors(ctx, "ghost", "")
	assert.ErrorIs(t, err, scene.ErrNodeNotFound)
}

func TestStore_Matrices(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	a := createTestJoint(t, s, "a", "")
	b := createTestJoint(t, s, "b", a)

	require.NoError(t, s.SetLocalMatrix(ctx, a, mgl64.Translate3D(1, 0, 0).Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(90)))))
	require.NoError(t, s.SetLocalMatrix(ctx, b, mgl64.Translate3D(2, 0, 0)))

	world, err := s.Translation(ctx, b, scene.SpaceWorld)
	require.NoError(t, err)
	testutil.AssertVec3Near(t, mgl64.Vec3{1, 2, 0}, world, 1e-9, "world = %v", world)

	local, err := s.Translation(ctx, b, scene.SpaceLocal)
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, local)

	target := mgl64.Translate3D(3, 3, 3).Mul4(mgl64.HomogRotate3DY(0.2))
	require.NoError(t, s.SetMatrix(ctx, b, target, false))
	got, err := s.WorldMatrix(ctx, b)
	require.NoError(t, err)
	testutil.AssertMat4Near(t, target, got, 1e-9)
}

func TestStore_SetMatrixSkipScale(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	a := createTestJoint(t, s, "a", "")

	require.NoError(t, s.SetMatrix(ctx, a, mgl64.Scale3D(3, 3, 3), false))
	require.NoError(t, s.SetMatrix(ctx, a, mgl64.Translate3D(1, 1, 1).Mul4(mgl64.Scale3D(9, 9, 9)), true))

	got, err := s.WorldMatrix(ctx, a)
	require.NoError(t, err)
	testutil.AssertVec3Near(t, mgl64.Vec3{3, 3, 3}, ikmath.Scale(got), 1e-9)
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, ikmath.Translation(got))
}

func TestStore_Connections(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	end := createTestJoint(t, s, "end", "")
	eff, err := s.CreateNode(ctx, scene.TypeEffector, "end_effector", "")
	require.NoError(t, err)
	other := createTestJoint(t, s, "other", "")

	require.NoError(t, s.Connect(ctx, scene.P(end, "translate"), scene.P(eff, "translate")))
	require.NoError(t, s.Connect(ctx, scene.P(end, "offsetParentMatrix"), scene.P(eff, "offsetParentMatrix")))

	err = s.Connect(ctx, scene.P(other, "translate"), scene.P(eff, "translate"))
	assert.ErrorIs(t, err, scene.ErrAlreadyConnected)

	conns, err := s.Connections(ctx, eff)
	require.NoError(t, err)
	assert.Equal(t, []scene.Connection{
		{Src: scene.P(end, "translate"), Dst: scene.P(eff, "translate")},
		{Src: scene.P(end, "offsetParentMatrix"), Dst: scene.P(eff, "offsetParentMatrix")},
	}, conns)

	journal, err := s.Journal(ctx)
	require.NoError(t, err)
	last := journal[len(journal)-1]
	assert.Equal(t, scene.OpConnect, last.Op)
	assert.Equal(t, "end.offsetParentMatrix", last.Node)
	assert.Equal(t, "end_effector.offsetParentMatrix", last.Target)
}

func TestStore_Attributes(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	h, err := s.CreateNode(ctx, scene.TypeIKHandle, "h", "")
	require.NoError(t, err)

	bias := scene.AttrDef{
		Name:  "springAngleBias",
		Type:  scene.AttrCompound,
		Multi: true,
		Children: []scene.AttrDef{
			{Name: "springAngleBias_Position", Type: scene.AttrDouble},
			{Name: "springAngleBias_FloatValue", Type: scene.AttrDouble},
			{Name: "springAngleBias_Interp", Type: scene.AttrEnum},
		},
	}
	require.NoError(t, s.AddAttr(ctx, h, bias))
	assert.ErrorIs(t, s.AddAttr(ctx, h, bias), scene.ErrAttrExists)

	require.NoError(t, s.AddAttr(ctx, h, scene.AttrDef{Name: "restPoleVectorCached", Type: scene.AttrInt, Hidden: true, Default: ir.IRInt(0)}))
	v, err := s.Attr(ctx, scene.P(h, "restPoleVectorCached"))
	require.NoError(t, err)
	assert.Equal(t, ir.IRInt(0), v)

	pos := scene.P(h, scene.ElementPlug("springAngleBias", 1, "springAngleBias_Position"))
	require.NoError(t, s.SetAttr(ctx, pos, ir.IRFloat(1)))
	require.NoError(t, s.LockAttr(ctx, pos, true))

	locked, err := s.IsLocked(ctx, pos)
	require.NoError(t, err)
	assert.True(t, locked)
	assert.ErrorIs(t, s.SetAttr(ctx, pos, ir.IRFloat(0)), scene.ErrAttrLocked)

	val := scene.P(h, scene.ElementPlug("springAngleBias", 1, "springAngleBias_FloatValue"))
	require.NoError(t, s.SetAttr(ctx, val, ir.IRFloat(0.5)))
	v, err = s.Attr(ctx, val)
	require.NoError(t, err)
	assert.Equal(t, ir.IRFloat(0.5), v)

	// Set twice: the value is replaced, not duplicated.
	require.NoError(t, s.SetAttr(ctx, val, ir.IRFloat(0.25)))
	v, err = s.Attr(ctx, val)
	require.NoError(t, err)
	assert.Equal(t, ir.IRFloat(0.25), v)

	assert.ErrorIs(t, s.SetAttr(ctx, scene.P(h, "springAngleBias[0].nope"), ir.IRFloat(1)), scene.ErrAttrNotFound)

	_, err = s.Attr(ctx, scene.P(h, "unset"))
	assert.ErrorIs(t, err, scene.ErrAttrNotFound)

	require.NoError(t, s.LockAttr(ctx, pos, false))
	locked, err = s.IsLocked(ctx, pos)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestStore_StringListAttr(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	j := createTestJoint(t, s, "j", "")

	require.NoError(t, s.SetAttr(ctx, scene.P(j, "preferredAngleSkip"), ir.Strings("x", "y")))
	v, err := s.Attr(ctx, scene.P(j, "preferredAngleSkip"))
	require.NoError(t, err)
	assert.Equal(t, ir.Strings("x", "y"), v)
}

func TestStore_WithClock(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "scene.db")
	clock := &stepClock{next: 100}

	s, err := Open(path, WithClock(clock), WithIDGenerator(scene.NewFixedGenerator("x")))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.CreateNode(ctx, scene.TypeJoint, "x", "")
	require.NoError(t, err)

	journal, err := s.Journal(ctx)
	require.NoError(t, err)
	require.Len(t, journal, 1)
	assert.Equal(t, scene.JournalEntry{Seq: 100, Op: scene.OpCreateNode, Node: "x", Target: scene.TypeJoint}, journal[0])
}

type stepClock struct{ next int64 }

func (c *stepClock) Next() int64 {
	n := c.next
	c.next++
	return n
}

func TestStore_Populate(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	f, err := scene.ParseFixture([]byte(`
nodes:
  - name: hip
    translate: [0, 10, 0]
  - name: knee
    parent: hip
    translate: [0, -4, 1]
  - name: ankle
    parent: knee
    translate: [0, -4, -1]
`))
	require.NoError(t, err)

	ids, err := f.Populate(ctx, s)
	require.NoError(t, err)

	ankle, err := s.Translation(ctx, ids["ankle"], scene.SpaceWorld)
	require.NoError(t, err)
	testutil.AssertVec3Near(t, mgl64.Vec3{0, 2, 0}, ankle, 1e-9)
}
