// Package ikmath provides the analytic IK math used by the rigging core.
//
// Everything here is a pure function over mgl64 values: no scene access, no
// logging, no shared state. Callers may use it from any goroutine.
//
// Chain convention:
//   - Forward axis is local +X
//   - The pole lies on local -Y (up-axis sign -1)
//   - Bend rotations are about local +Z
//
// Chains must be oriented to this convention before their poses are fed to
// SolveTwoBone. The convention is not validated.
package ikmath
