package ikmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SoftIKResult is the softened end point and the uniform stretch that makes
// the chain reach the original target from it.
type SoftIKResult struct {
	SoftEndPoint mgl64.Vec3
	StretchScale float64

	// Distance is the softened start-to-end distance.
	Distance float64
}

// SoftDistance maps a raw start-to-end distance onto the soft IK curve.
//
// Below chainLength-softDistance the distance passes through. Above it the
// distance eases exponentially toward chainLength. A softDistance of zero
// disables softening.
func SoftDistance(distance, chainLength, softDistance float64) float64 {
	a := chainLength - softDistance
	if softDistance <= 0 || (distance >= 0 && distance < a) {
		return distance
	}
	return softDistance*(1-math.Exp(-(distance-a)/softDistance)) + a
}

// SoftIK computes the soft IK falloff for a chain of chainLength reaching
// from start to end.
//
// A softDistance of zero disables softening and returns end with a stretch
// of 1. Negative soft distances return ErrInvalidSoftDistance.
func SoftIK(start, end mgl64.Vec3, chainLength, softDistance float64) (SoftIKResult, error) {
	if softDistance < 0 {
		return SoftIKResult{}, fmt.Errorf("soft ik: %g: %w", softDistance, ErrInvalidSoftDistance)
	}

	delta := end.Sub(start)
	distance := delta.Len()
	passthrough := SoftIKResult{SoftEndPoint: end, StretchScale: 1, Distance: distance}

	dir, ok := normalize(delta)
	if !ok || softDistance == 0 {
		return passthrough, nil
	}

	y := SoftDistance(distance, chainLength, softDistance)
	if y == distance {
		return passthrough, nil
	}

	softOffset := distance - y
	result := SoftIKResult{
		SoftEndPoint: end.Sub(dir.Mul(softOffset)),
		StretchScale: 1,
		Distance:     y,
	}
	if !nearZero(y) {
		result.StretchScale = distance / y
	}
	return result, nil
}
