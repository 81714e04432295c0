package harness

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_Golden(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.Len(t, files, 5)

	for _, f := range files {
		name := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario(f)
			require.NoError(t, err)
			require.Equal(t, name, s.Name, "scenario name must match its file name")

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/leg_spring.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	a, err := Snapshot(s.Name, first)
	require.NoError(t, err)
	b, err := Snapshot(s.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRun_FailingAssertions(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: wrong_expectations
description: "every assertion is wrong"
fixture:
  nodes:
    - name: a
    - name: b
      parent: a
      translate: [1, 0, 0]
steps:
  - build: { start: a, end: b }
assertions:
  - { type: topology, handle: b_ikHandle, expect: spring }
  - { type: node_exists, node: ghost }
  - { type: node_count, node_type: ikHandle, count: 3 }
  - { type: connected, src: a.translate, dst: b_effector.translate }
  - { type: attr_equals, plug: b_ikHandle.stickiness, value: 0 }
  - { type: world_translation, node: b_ikHandle, value: [0, 0, 0] }
  - { type: error, step: 0, code: NOT_JOINT }
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 7)
	assert.Contains(t, result.Errors[0], "expected spring, got single_chain")
	assert.Contains(t, result.Errors[1], "ghost")
	assert.Contains(t, result.Errors[2], "3 ikHandle nodes")
	assert.Contains(t, result.Errors[3], "no such connection")
	assert.Contains(t, result.Errors[4], "expected 0, got 1")
	assert.Contains(t, result.Errors[5], "world_translation")
	assert.Contains(t, result.Errors[6], "step succeeded")
}

func TestRun_UnexpectedStepFailure(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: unexpected
description: "disjoint build with no error assertion"
fixture:
  nodes:
    - name: a
    - name: b
steps:
  - build: { start: a, end: b }
assertions:
  - { type: node_count, node_type: ikHandle, count: 0 }
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "step 0 (build) failed unexpectedly")
	assert.Equal(t, "DISJOINT_CHAIN", result.Steps[0].Code)
}

func TestRun_NonJointIsSkippedWhenLenient(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: lenient
description: "non-joint endpoint is a silent no-op"
fixture:
  nodes:
    - name: a
    - name: loc
      type: locator
      parent: a
steps:
  - build: { start: a, end: loc }
assertions:
  - { type: node_count, node_type: ikHandle, count: 0 }
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, StepOutcome{Index: 0, Kind: StepBuild}, result.Steps[0])
}

func TestRun_WithLogger(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/arm_rotation_plane.yaml")
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err = Run(s, WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "scenario step completed")
	assert.Contains(t, buf.String(), "ik handle created")
	// solver, effector and handle, five connections, the handle matrix
	assert.Contains(t, buf.String(), "mutations=9")
}
