// Package ir provides the plain value types shared by the rigging layers.
//
// This package contains type definitions and serialization only. All other
// internal packages may import ir; ir imports nothing internal. The pure
// math layer and the scene port exchange data through these types.
//
// Key design constraints:
//   - Attribute values are sealed IRValue types
//   - Canonical JSON is the only serialization used for hashing and golden traces
//   - Floats are allowed but NaN and Inf are rejected
//   - All JSON tags use snake_case
package ir
