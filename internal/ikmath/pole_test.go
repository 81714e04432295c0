package ikmath

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoleVector_OrthogonalToForward(t *testing.T) {
	sets := [][]mgl64.Vec3{
		{{0, 0, 0}, {1, 1, 0}, {2, 0, 0}},
		{{0, 0, 0}, {3, -1, 2}, {5, 0, 1}},
		{{1, 2, 3}, {4, 0, -2}, {-3, 5, 1}},
		{{0, 10, 0}, {0.2, 5, 0.1}, {0, 0, 0}, {9, 9, 9}},
	}

	for _, pts := range sets {
		pole, err := PoleVector(pts)
		require.NoError(t, err)

		forward := pts[2].Sub(pts[0]).Normalize()
		assert.InDelta(t, 0, pole.Dot(forward), 1e-9)
		assert.InDelta(t, 1, pole.Len(), 1e-9)

		// Points toward the middle joint.
		assert.Greater(t, pole.Dot(pts[1].Sub(pts[0])), 0.0)
	}
}

func TestPoleVector_KnownResult(t *testing.T) {
	pole, err := PoleVector([]mgl64.Vec3{{0, 0, 0}, {1, 1, 0}, {2, 0, 0}})
	require.NoError(t, err)
	assertVec3Near(t, mgl64.Vec3{0, 1, 0}, pole, 1e-12, "pole = %v", pole)
}

func TestPoleVector_InsufficientInput(t *testing.T) {
	for n := 0; n < 3; n++ {
		_, err := PoleVector(make([]mgl64.Vec3, n))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInsufficientInput)
		assert.True(t, IsInsufficientInput(err))

		var ie *InsufficientInputError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, n, ie.Got)
	}
}

func TestPoleVector_Colinear(t *testing.T) {
	_, err := PoleVector([]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}})
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
}

func TestRestPoleVector(t *testing.T) {
	pole, err := RestPoleVector(mgl64.Vec3{}, mgl64.Vec3{10, 0, 0}, mgl64.Vec3{0, 0, 3})
	require.NoError(t, err)
	// x cross z = -y
	assertVec3Near(t, mgl64.Vec3{0, -1, 0}, pole, 1e-12)

	_, err = RestPoleVector(mgl64.Vec3{}, mgl64.Vec3{10, 0, 0}, mgl64.Vec3{2, 0, 0})
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
}
