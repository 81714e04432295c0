package ikmath

import (
	"github.com/go-gl/mathgl/mgl64"
)

// PoleVector returns a unit vector orthogonal to the chain's forward
// direction (first to third point) that points toward the second point.
//
// Only the first three points are used. Fewer than three points return an
// InsufficientInputError; colinear points return ErrDegenerateGeometry.
func PoleVector(points []mgl64.Vec3) (mgl64.Vec3, error) {
	if len(points) < 3 {
		return mgl64.Vec3{}, &InsufficientInputError{Op: "pole vector", Need: 3, Got: len(points)}
	}
	p0, p1, p2 := points[0], points[1], points[2]

	forward, ok := normalize(p2.Sub(p0))
	if !ok {
		return mgl64.Vec3{}, degenerate("pole vector: first and last points coincide")
	}
	toMid, ok := normalize(p1.Sub(p0))
	if !ok {
		return mgl64.Vec3{}, degenerate("pole vector: first and middle points coincide")
	}

	cross, ok := normalize(toMid.Cross(forward))
	if !ok {
		return mgl64.Vec3{}, degenerate("pole vector: points are colinear")
	}

	pole, ok := normalize(forward.Cross(cross))
	if !ok {
		return mgl64.Vec3{}, degenerate("pole vector: points are colinear")
	}
	return pole, nil
}

// RestPoleVector returns the rest-pose pole for a chain aimed from start to
// end, using the start joint's binormal axis as the side direction.
func RestPoleVector(start, end, binormal mgl64.Vec3) (mgl64.Vec3, error) {
	forward, ok := normalize(end.Sub(start))
	if !ok {
		return mgl64.Vec3{}, degenerate("rest pole: start and end coincide")
	}
	right, ok := normalize(binormal)
	if !ok {
		return mgl64.Vec3{}, degenerate("rest pole: binormal has zero length")
	}
	pole, ok := normalize(forward.Cross(right))
	if !ok {
		return mgl64.Vec3{}, degenerate("rest pole: binormal is parallel to the chain")
	}
	return pole, nil
}
