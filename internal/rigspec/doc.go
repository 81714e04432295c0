// Package rigspec compiles CUE rig definitions into ir.ChainSpec values.
//
// A definition names the chain's endpoints by scene node name:
//
//	rig: left_arm: {
//		start:         "l_shoulder"
//		end:           "l_wrist"
//		soft_distance: 0.5
//	}
//
//	rig: spine: {
//		start:    "spine_01"
//		end:      "spine_05"
//		topology: "spline"
//		curve:    "spine_crv"
//	}
//
// CompileChain turns one definition into a ChainSpec. Validate applies the
// cross-field rules (a spline needs a curve, a curve needs a spline, soft
// distance is non-negative) and returns every violation it finds.
package rigspec
