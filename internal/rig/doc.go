// Package rig builds IK rigs on a host scene.
//
// It is the effectful layer over internal/ikmath:
//
//   - Classifier walks the joint ancestry between two joints and picks a
//     solver topology by joint count.
//   - Registry hands out one shared solver node per topology, creating it on
//     first use.
//   - Builder creates the IK handle and effector, wires their connections and
//     applies per-topology configuration (stickiness, Spring rest pose and
//     angle-bias curve, Spline curve input).
//   - Synchronizer matches FK and IK poses in either direction.
//
// All scene access goes through the scene.Scene port. Nothing here is safe
// for concurrent use; callers serialize rig construction against one scene.
//
// Failure policy: requests that name non-joint nodes are silent no-ops unless
// the builder is strict. Every other precondition, including the soft
// distance and a solver name conflict, is checked before the first scene
// mutation, so a rejected build leaves the scene untouched. Host errors
// during the mutations themselves are returned as they occur.
package rig
