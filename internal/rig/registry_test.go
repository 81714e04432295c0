package rig

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ikrig/internal/ir"
	"github.com/roach88/ikrig/internal/scene"
	"github.com/roach88/ikrig/internal/testutil"
)

func TestRegistry_GetIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewScene()
	r := NewRegistry(s)

	first, err := r.Get(ctx, ir.SingleChain)
	require.NoError(t, err)
	second, err := r.Get(ctx, ir.SingleChain)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, ir.SingleChain, first.Topology)

	solvers, err := s.ListNodes(ctx, "ikSCsolver")
	require.NoError(t, err)
	assert.Len(t, solvers, 1)

	name, err := s.Name(ctx, first.Node)
	require.NoError(t, err)
	assert.Equal(t, "ikSCsolver", name)
}

func TestRegistry_OnePerTopology(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewScene()
	r := NewRegistry(s)

	seen := map[string]bool{}
	for _, topo := range ir.Topologies {
		inst, err := r.Get(ctx, topo)
		require.NoError(t, err)
		assert.False(t, seen[string(inst.Node)], "topology %s reused a node", topo)
		seen[string(inst.Node)] = true

		typ, err := s.NodeType(ctx, inst.Node)
		require.NoError(t, err)
		assert.Equal(t, topo.SolverNodeType(), typ)
	}
}

func TestRegistry_AdoptsExistingSolver(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewScene()

	existing, err := s.CreateNode(ctx, "ikRPsolver", "ikRPsolver", "")
	require.NoError(t, err)

	// Two registries over one scene agree on the solver.
	a, err := NewRegistry(s).Get(ctx, ir.RotationPlane)
	require.NoError(t, err)
	b, err := NewRegistry(s).Get(ctx, ir.RotationPlane)
	require.NoError(t, err)

	assert.Equal(t, existing, a.Node)
	assert.Equal(t, existing, b.Node)

	solvers, err := s.ListNodes(ctx, "ikRPsolver")
	require.NoError(t, err)
	assert.Len(t, solvers, 1)
}

func TestRegistry_UnknownTopology(t *testing.T) {
	_, err := NewRegistry(testutil.NewScene()).Get(context.Background(), ir.Topology(42))
	assert.Error(t, err)
}

func TestRegistry_RejectsForeignNodeUnderSolverName(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewScene()
	arm := testutil.BentArm(t, s, "arm")

	squatter, err := s.CreateNode(ctx, scene.TypeLocator, "ikRPsolver", "")
	require.NoError(t, err)

	_, err = NewRegistry(s).Get(ctx, ir.RotationPlane)
	require.Error(t, err)
	assert.True(t, IsSolverConflict(err))
	code, _ := CodeOf(err)
	assert.Equal(t, ErrCodeSolverConflict, code)

	nodes, journal := sceneSize(t, s)
	h, err := NewBuilder(s).Build(ctx, arm[0], arm[2])
	assert.Nil(t, h)
	assert.True(t, IsSolverConflict(err))

	afterNodes, afterJournal := sceneSize(t, s)
	assert.Equal(t, nodes, afterNodes)
	assert.Equal(t, journal, afterJournal)

	typ, err := s.NodeType(ctx, squatter)
	require.NoError(t, err)
	assert.Equal(t, scene.TypeLocator, typ)
}
