package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ikrig/internal/scene"
)

// NewScene returns an in-memory scene with sequential ids and a
// deterministic journal clock.
func NewScene() *scene.Memory {
	return scene.NewMemory(
		scene.WithIDGenerator(scene.NewSequentialGenerator("n")),
		scene.WithClock(NewDeterministicClock()),
	)
}

// BuildChain creates one joint per position, each parented under the
// previous one, named prefix1..prefixN. Positions are world space; joints
// carry no rotation.
func BuildChain(t testing.TB, s scene.Scene, prefix string, positions ...mgl64.Vec3) []scene.NodeID {
	t.Helper()
	ctx := context.Background()

	ids := make([]scene.NodeID, 0, len(positions))
	var parent scene.NodeID
	for i, p := range positions {
		id, err := s.CreateNode(ctx, scene.TypeJoint, fmt.Sprintf("%s%d", prefix, i+1), parent)
		require.NoError(t, err)
		require.NoError(t, s.SetMatrix(ctx, id, mgl64.Translate3D(p[0], p[1], p[2]), false))
		ids = append(ids, id)
		parent = id
	}
	return ids
}

// StraightChain builds n joints along +X, segment apart, starting at the
// origin.
func StraightChain(t testing.TB, s scene.Scene, prefix string, n int, segment float64) []scene.NodeID {
	t.Helper()
	positions := make([]mgl64.Vec3, n)
	for i := range positions {
		positions[i] = mgl64.Vec3{float64(i) * segment, 0, 0}
	}
	return BuildChain(t, s, prefix, positions...)
}

// BentArm builds a three-joint arm in the XY plane bent toward -Y, the side
// the solvers treat as the pole side.
func BentArm(t testing.TB, s scene.Scene, prefix string) []scene.NodeID {
	t.Helper()
	return BuildChain(t, s, prefix,
		mgl64.Vec3{0, 0, 0},
		mgl64.Vec3{3, -4, 0},
		mgl64.Vec3{6, 0, 0},
	)
}
