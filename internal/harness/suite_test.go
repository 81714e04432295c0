package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindScenarios(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt", ".hidden/c.yaml", "sub/d.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}

	files, err := FindScenarios(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "sub", "d.yaml"),
	}, files)

	_, err = FindScenarios(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestRunSuite(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios")
	require.NoError(t, err)

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("name: [\n"), 0644))

	res := RunSuite(append(files, broken))
	assert.Equal(t, len(files)+1, res.Total)
	assert.Equal(t, len(files), res.Passed)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Scenarios, len(files)+1)
	assert.True(t, res.Scenarios[0].Pass)
	assert.NotEmpty(t, res.Scenarios[0].Scenario)

	failures := res.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, broken, failures[0].Path)
	assert.Contains(t, failures[0].Errors[0], "failed to parse YAML")
}
