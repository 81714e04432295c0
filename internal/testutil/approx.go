package testutil

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// Tolerance is the default absolute tolerance for geometry assertions.
const Tolerance = 1e-9

// AssertNear fails the test when |want-got| > tol.
func AssertNear(t testing.TB, want, got, tol float64, msgAndArgs ...any) bool {
	t.Helper()
	if scalar.EqualWithinAbs(want, got, tol) {
		return true
	}
	t.Errorf("not within %g: want %v, got %v %v", tol, want, got, msgAndArgs)
	return false
}

// AssertVec3Near fails the test when any component differs by more than tol.
func AssertVec3Near(t testing.TB, want, got mgl64.Vec3, tol float64, msgAndArgs ...any) bool {
	t.Helper()
	if floats.EqualApprox(want[:], got[:], tol) {
		return true
	}
	t.Errorf("vectors not within %g:\n want %v\n  got %v %v", tol, want, got, msgAndArgs)
	return false
}

// AssertMat4Near fails the test when any element differs by more than tol.
func AssertMat4Near(t testing.TB, want, got mgl64.Mat4, tol float64, msgAndArgs ...any) bool {
	t.Helper()
	if floats.EqualApprox(want[:], got[:], tol) {
		return true
	}
	t.Errorf("matrices not within %g:\n want %v\n  got %v %v", tol, want, got, msgAndArgs)
	return false
}
