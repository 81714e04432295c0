package cli

import (
	"encoding/json"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ikrig/internal/testutil"
)

const tol = 1e-9

func decodeData(t *testing.T, out string, v any) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func TestSolveTwoBone(t *testing.T) {
	out, err := runCLI(t, "solve", "twobone",
		"--end", "6,0,0", "--start-length", "5", "--end-length", "5",
		"--format", "json")
	require.NoError(t, err)

	var res TwoBoneOutput
	decodeData(t, out, &res)
	testutil.AssertVec3Near(t, mgl64.Vec3{0, 0, 0}, res.Root, tol)
	testutil.AssertVec3Near(t, mgl64.Vec3{6, 0, 0}, res.End, tol)
	testutil.AssertNear(t, 5, mgl64.Vec3(res.Mid).Len(), tol)
	testutil.AssertNear(t, 5, mgl64.Vec3(res.End).Sub(res.Mid).Len(), tol)
	assert.False(t, res.Hyperextended)
}

func TestSolveTwoBoneText(t *testing.T) {
	out, err := runCLI(t, "solve", "twobone",
		"--end", "6,0,0", "--start-length", "5", "--end-length", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "root:")
	assert.Contains(t, out, "angles:")
}

func TestSolveTwoBoneBadVector(t *testing.T) {
	out, err := runCLI(t, "solve", "twobone",
		"--end", "6,0", "--start-length", "5", "--end-length", "5")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error ["+ErrCodeBadInput+"]")
}

func TestSolveTwoBoneDegenerate(t *testing.T) {
	_, err := runCLI(t, "solve", "twobone",
		"--end", "0,0,0", "--start-length", "5", "--end-length", "5")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestSolveSoft(t *testing.T) {
	out, err := runCLI(t, "solve", "soft",
		"--end", "10,0,0", "--chain-length", "10", "--soft-distance", "1",
		"--format", "json")
	require.NoError(t, err)

	var res SoftOutput
	decodeData(t, out, &res)
	assert.Less(t, res.SoftEndPoint[0], 10.0)
	assert.Greater(t, res.SoftEndPoint[0], 9.0)
	assert.Greater(t, res.StretchScale, 1.0)
	assert.Less(t, res.Distance, 10.0)
}

func TestSolveSoftDisabled(t *testing.T) {
	out, err := runCLI(t, "solve", "soft",
		"--end", "10,0,0", "--chain-length", "10", "--format", "json")
	require.NoError(t, err)

	var res SoftOutput
	decodeData(t, out, &res)
	testutil.AssertVec3Near(t, mgl64.Vec3{10, 0, 0}, res.SoftEndPoint, tol)
	testutil.AssertNear(t, 1, res.StretchScale, tol)
}

func TestSolveSoftNegative(t *testing.T) {
	_, err := runCLI(t, "solve", "soft",
		"--end", "10,0,0", "--chain-length", "10", "--soft-distance", "-1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestSolvePole(t *testing.T) {
	out, err := runCLI(t, "solve", "pole", "0,0,0", "3,-4,0", "6,0,0", "--format", "json")
	require.NoError(t, err)

	var res PoleOutput
	decodeData(t, out, &res)
	testutil.AssertVec3Near(t, mgl64.Vec3{0, -1, 0}, res.PoleVector, tol)
}

func TestSolvePoleStraight(t *testing.T) {
	_, err := runCLI(t, "solve", "pole", "0,0,0", "3,0,0", "6,0,0")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
