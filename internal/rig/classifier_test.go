package rig

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ikrig/internal/ir"
	"github.com/roach88/ikrig/internal/scene"
	"github.com/roach88/ikrig/internal/testutil"
)

func TestClassify_ByJointCount(t *testing.T) {
	tests := []struct {
		joints int
		want   ir.Topology
	}{
		{2, ir.SingleChain},
		{3, ir.RotationPlane},
		{4, ir.Spring},
		{5, ir.Spring},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			s := testutil.NewScene()
			ids := testutil.StraightChain(t, s, "j", tt.joints, 1)

			cls, err := NewClassifier(s).Classify(context.Background(), ids[0], ids[len(ids)-1])
			require.NoError(t, err)
			assert.Equal(t, tt.want, cls.Topology)
			assert.Equal(t, Chain(ids), cls.Chain)
		})
	}
}

func TestClassify_SubChain(t *testing.T) {
	s := testutil.NewScene()
	ids := testutil.StraightChain(t, s, "j", 5, 1)

	cls, err := NewClassifier(s).Classify(context.Background(), ids[1], ids[3])
	require.NoError(t, err)
	assert.Equal(t, ir.RotationPlane, cls.Topology)
	assert.Equal(t, Chain{ids[1], ids[2], ids[3]}, cls.Chain)
	assert.Equal(t, []scene.NodeID{ids[2]}, cls.Chain.Intermediate())
}

func TestClassify_Disjoint(t *testing.T) {
	s := testutil.NewScene()
	arm := testutil.StraightChain(t, s, "arm", 3, 1)
	leg := testutil.StraightChain(t, s, "leg", 3, 1)

	c := NewClassifier(s)

	_, err := c.Classify(context.Background(), leg[0], arm[2])
	require.Error(t, err)
	assert.True(t, IsDisjointChain(err))

	// Reversed order: the end is an ancestor of the start.
	_, err = c.Classify(context.Background(), arm[2], arm[0])
	assert.True(t, IsDisjointChain(err))

	// A joint is not its own ancestor.
	_, err = c.Classify(context.Background(), arm[1], arm[1])
	assert.True(t, IsDisjointChain(err))
}

func TestClassify_SkipsNonJointAncestors(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewScene()

	root, err := s.CreateNode(ctx, scene.TypeJoint, "root", "")
	require.NoError(t, err)
	offset, err := s.CreateNode(ctx, scene.TypeTransform, "offset", root)
	require.NoError(t, err)
	tip, err := s.CreateNode(ctx, scene.TypeJoint, "tip", offset)
	require.NoError(t, err)
	require.NoError(t, s.SetMatrix(ctx, tip, mgl64.Translate3D(2, 0, 0), false))

	cls, err := NewClassifier(s).Classify(ctx, root, tip)
	require.NoError(t, err)
	assert.Equal(t, ir.SingleChain, cls.Topology)
	assert.Equal(t, Chain{root, tip}, cls.Chain)
}

func TestClassify_MissingNode(t *testing.T) {
	s := testutil.NewScene()
	_, err := NewClassifier(s).Classify(context.Background(), "a", "b")
	assert.ErrorIs(t, err, scene.ErrNodeNotFound)
	assert.False(t, IsDisjointChain(err))
}
