package rig

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ikrig/internal/ir"
	"github.com/roach88/ikrig/internal/scene"
	"github.com/roach88/ikrig/internal/store"
	"github.com/roach88/ikrig/internal/testutil"
)

// The builder only talks to the scene port, so the SQLite host behaves the
// same as the in-memory one.
func TestBuild_SpringOnStore(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "rig.db"), store.WithIDGenerator(scene.NewSequentialGenerator("n")))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	chain := testutil.StraightChain(t, st, "tail", 4, 1)

	h, err := NewBuilder(st).Build(ctx, chain[0], chain[3])
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, ir.Spring, h.Topology)

	v, err := st.Attr(ctx, scene.P(h.Node, AttrRestPoleVector))
	require.NoError(t, err)
	pole, err := ir.AsVec3(v)
	require.NoError(t, err)
	testutil.AssertVec3Near(t, mgl64.Vec3{0, -1, 0}, pole, testutil.Tolerance)

	pos := scene.P(h.Node, scene.ElementPlug(AttrSpringAngleBias, 1, AttrBiasPosition))
	assert.ErrorIs(t, st.SetAttr(ctx, pos, ir.IRFloat(0.2)), scene.ErrAttrLocked)

	// A second builder brings its own registry.
	again, err := NewBuilder(st).Build(ctx, chain[1], chain[3])
	require.NoError(t, err)
	assert.Equal(t, ir.RotationPlane, again.Topology)

	// A fresh registry adopts the existing solver instead of duplicating it.
	spring, err := NewRegistry(st).Get(ctx, ir.Spring)
	require.NoError(t, err)
	assert.Equal(t, h.Solver, spring.Node)
}
