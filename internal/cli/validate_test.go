package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ikrig/internal/rigspec"
)

func TestValidateCommandMissingArgs(t *testing.T) {
	_, err := runCLI(t, "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestValidateCommandValid(t *testing.T) {
	dir := rigsDir(t, `package rigs

rig: arm: {start: "shoulder", end: "wrist"}
rig: spine: {start: "spine1", end: "spine5", topology: "spline", curve: "spine_crv"}
`)

	out, err := runCLI(t, "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 2 rig(s) valid")

	out, err = runCLI(t, "validate", dir, "--format", "json")
	require.NoError(t, err)
	var res ValidationResult
	decodeData(t, out, &res)
	assert.True(t, res.Valid)
	assert.Equal(t, []string{"arm", "spine"}, res.Rigs)
}

func TestValidateCommandReportsAllErrors(t *testing.T) {
	dir := rigsDir(t, `package rigs

rig: arm: {start: "shoulder", end: "shoulder"}
rig: spine: {start: "spine1", end: "spine5", topology: "spline"}
rig: leg: {start: "hip", end: "ankle", soft_distance: -0.5}
rig: leg2: {start: "knee", end: "ankle"}
`)

	out, err := runCLI(t, "validate", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var res ValidationResult
	decodeData(t, out, &res)
	assert.False(t, res.Valid)

	codes := make(map[string]bool)
	for _, e := range res.Errors {
		codes[e.Code] = true
	}
	assert.True(t, codes[rigspec.ErrEndpointsEqual])
	assert.True(t, codes[rigspec.ErrSplineWithoutCurve])
	assert.True(t, codes[rigspec.ErrSoftDistanceNegative])
	assert.True(t, codes[rigspec.ErrDuplicateEndJoint])
}

func TestValidateCommandCompileError(t *testing.T) {
	dir := rigsDir(t, `package rigs

rig: arm: {start: "shoulder", end: "wrist", colour: "red"}
rig: leg: {start: "hip", end: "ankle"}
`)

	out, err := runCLI(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "unknown field")
}

func TestValidateCommandMissingDir(t *testing.T) {
	out, err := runCLI(t, "validate", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNotFound)
}

func TestValidateCommandNoCUEFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "no rigs here")

	out, err := runCLI(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNoFiles)
}
