package ikmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// TwoBoneInput describes a 2-bone chain to solve.
type TwoBoneInput struct {
	// StartPoint is the world position of the root joint.
	StartPoint mgl64.Vec3

	// StartLength is the length of the root segment.
	StartLength float64

	// EndPoint is the world position the end of the chain should reach.
	EndPoint mgl64.Vec3

	// EndLength is the length of the second segment.
	EndLength float64

	// PoleVector is the direction the middle joint bends toward.
	PoleVector mgl64.Vec3

	// Twist rotates the bend plane about the aim axis, in radians.
	Twist float64
}

// TwoBoneSolution holds the solved root, mid and end poses.
type TwoBoneSolution struct {
	Root mgl64.Mat4
	Mid  mgl64.Mat4
	End  mgl64.Mat4

	// StartAngle is the interior angle at the root, 0 when hyperextended.
	StartAngle float64

	// EndAngle is the interior angle at the middle joint, 0 when hyperextended.
	EndAngle float64

	// Hyperextended is true when the target is at or beyond full reach and
	// the chain was laid out straight.
	Hyperextended bool
}

// SolveTwoBone analytically solves a 2-bone chain.
//
// When the target is within reach the interior angles come from the law of
// cosines. At or beyond full reach the chain is laid out straight along the
// aim direction.
//
// Returns ErrInvalidLength for non-positive segment lengths and
// ErrDegenerateGeometry when the target coincides with the start or the pole
// is parallel to the aim.
func SolveTwoBone(in TwoBoneInput) (TwoBoneSolution, error) {
	if in.StartLength <= 0 || in.EndLength <= 0 {
		return TwoBoneSolution{}, fmt.Errorf("solve two bone: lengths %g, %g: %w",
			in.StartLength, in.EndLength, ErrInvalidLength)
	}

	aim, err := AimMatrix(in.StartPoint, in.EndPoint, in.PoleVector, in.Twist)
	if err != nil {
		return TwoBoneSolution{}, fmt.Errorf("solve two bone: %w", err)
	}

	chainLength := in.StartLength + in.EndLength
	aimLength := in.EndPoint.Sub(in.StartPoint).Len()

	if aimLength >= chainLength {
		mid := aim.Mul4(mgl64.Translate3D(in.StartLength, 0, 0))
		return TwoBoneSolution{
			Root:          aim,
			Mid:           mid,
			End:           mid.Mul4(mgl64.Translate3D(in.EndLength, 0, 0)),
			Hyperextended: true,
		}, nil
	}

	startAngle, endAngle := BendAngles(in.StartLength, in.EndLength, aimLength)

	root := aim.Mul4(mgl64.HomogRotate3DZ(-startAngle))
	mid := root.
		Mul4(mgl64.Translate3D(in.StartLength, 0, 0)).
		Mul4(mgl64.HomogRotate3DZ(math.Pi - endAngle))
	end := mid.Mul4(mgl64.Translate3D(in.EndLength, 0, 0))

	return TwoBoneSolution{
		Root:       root,
		Mid:        mid,
		End:        end,
		StartAngle: startAngle,
		EndAngle:   endAngle,
	}, nil
}

// BendAngles returns the interior angles at the root and middle joint of a
// triangle with sides startLength, endLength and aimLength. Ratios outside
// [-1, 1] are clamped, so targets closer than |startLength-endLength| fold the
// chain fully.
func BendAngles(startLength, endLength, aimLength float64) (startAngle, endAngle float64) {
	startAngle = math.Acos(clampUnit(
		(startLength*startLength + aimLength*aimLength - endLength*endLength) /
			(2 * startLength * aimLength)))
	endAngle = math.Acos(clampUnit(
		(endLength*endLength + startLength*startLength - aimLength*aimLength) /
			(2 * endLength * startLength)))
	return startAngle, endAngle
}
