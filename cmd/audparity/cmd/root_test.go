package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs a freshly built root command with args and returns stdout,
// stderr, and the execution error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCmd_RequiresThreeArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"one arg", []string{"original.dll"}},
		{"two args", []string{"original.dll", "rebuilt.dll"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := execute(t, tt.args...)

			require.Error(t, err)
			assert.Contains(t, stderr, "Usage:")
		})
	}
}

func TestRootCmd_BestEffortComparisonWhenNeitherLibraryLoads(t *testing.T) {
	// Given: three valid positional arguments but no loadable libraries
	chdir(t, t.TempDir())
	dir := t.TempDir()
	orig := filepath.Join(dir, "original.dll")
	rebuilt := filepath.Join(dir, "rebuilt.dll")
	testFile := filepath.Join(dir, "tone.wav")

	// When: running the comparison
	stdout, stderr, err := execute(t, orig, rebuilt, testFile)

	// Then: the run proceeds to a sentinel-filled comparison instead of
	// aborting, and both failures are diagnosed on stderr
	require.NoError(t, err)
	assert.Contains(t, stderr, "ERR_301_LOAD_FAILED")
	assert.Contains(t, stderr, "verdict: PASS")
	assert.Contains(t, stderr, "neither library produced data")

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "original", records[0]["dll"])
	assert.Equal(t, "rebuilt", records[1]["dll"])
	assert.Equal(t, float64(-999), records[0]["open_ret"])
	assert.Equal(t, float64(-1), records[0]["num_files"])
}

func TestRootCmd_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["formats"])
	assert.True(t, names["history"])
	assert.True(t, names["version"])
}

func TestRootCmd_FlagDefaults(t *testing.T) {
	cmd := NewRootCmd()

	f := cmd.Flags().Lookup("format-code")
	require.NotNil(t, f)
	assert.Equal(t, "-1", f.DefValue)

	for _, name := range []string{"config", "challenge-init", "results", "history"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s", name)
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))
}
