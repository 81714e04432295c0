package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/roach88/ikrig/internal/ikmath"
)

// LocalFromWorld converts a world matrix into the local matrix under
// parentWorld. Both hosts store local matrices.
func LocalFromWorld(parentWorld, world mgl64.Mat4) mgl64.Mat4 {
	return parentWorld.Inv().Mul4(world)
}

// ResolveWorld returns the world matrix a node should receive from
// SetMatrix, keeping currentWorld's scale when skipScale is set.
func ResolveWorld(currentWorld, requested mgl64.Mat4, skipScale bool) mgl64.Mat4 {
	if !skipScale {
		return requested
	}
	return ikmath.WithScale(requested, ikmath.Scale(currentWorld))
}
