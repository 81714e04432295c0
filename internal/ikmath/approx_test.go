package ikmath

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"
)

// Absolute-tolerance comparisons, element by element.

func assertVec3Near(t *testing.T, want, got mgl64.Vec3, tol float64, msgAndArgs ...any) {
	t.Helper()
	if !floats.EqualApprox(want[:], got[:], tol) {
		t.Errorf("vectors not within %g:\n want %v\n  got %v %v", tol, want, got, msgAndArgs)
	}
}

func assertMat4Near(t *testing.T, want, got mgl64.Mat4, tol float64, msgAndArgs ...any) {
	t.Helper()
	if !floats.EqualApprox(want[:], got[:], tol) {
		t.Errorf("matrices not within %g:\n want %v\n  got %v %v", tol, want, got, msgAndArgs)
	}
}
