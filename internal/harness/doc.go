// Package harness runs rig scenarios: a YAML scene fixture, a list of rig
// steps and assertions over the resulting scene.
//
// # Scenario Format
//
//	name: arm_rotation_plane
//	description: "Three-joint arm gets a rotation-plane handle"
//	fixture:
//	  nodes:
//	    - name: shoulder
//	    - name: elbow
//	      parent: shoulder
//	      translate: [3, -4, 0]
//	steps:
//	  - build: { start: shoulder, end: wrist }
//	  - spline: { start: spine1, end: spine4, curve: spine_crv }
//	  - rig: { name: leg, start: hip, end: toe, topology: spring, soft_distance: 0.5 }
//	  - fk_from_ik: { fk: [fk1, fk2], ik: [ik1, ik2] }
//	  - ik_from_fk: { fk: [fk1, fk2, fk3], start_effector: root_ctl, end_effector: hand_ctl, pole: pole_ctl }
//	assertions:
//	  - { type: topology, handle: wrist_ikHandle, expect: rotation_plane }
//	  - { type: node_exists, node: ikRPsolver }
//	  - { type: node_count, node_type: ikRPsolver, count: 1 }
//	  - { type: connected, src: wrist.translate, dst: wrist_effector.translate }
//	  - { type: attr_equals, plug: wrist_ikHandle.stickiness, value: 1 }
//	  - { type: world_translation, node: hand_ctl, value: [6, 0, 0] }
//	  - { type: error, step: 0, code: DISJOINT_CHAIN }
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory scene with sequential node
// ids and a testutil.DeterministicClock, so the scene journal is identical
// across runs and can be compared against golden files with RunWithGolden.
//
// A step that fails is recorded with its error code and execution
// continues. A failed step that no error assertion names fails the
// scenario.
package harness
