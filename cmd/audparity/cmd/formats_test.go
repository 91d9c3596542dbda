package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestFormatsCmd_PrintsDefaultTable(t *testing.T) {
	chdir(t, t.TempDir())

	stdout, _, err := execute(t, "formats")
	require.NoError(t, err)

	assert.Contains(t, stdout, ".wav")
	assert.Contains(t, stdout, "-> 9")
	assert.Contains(t, stdout, ".zma")
	assert.Contains(t, stdout, "auto-detect")
}

func TestFormatsCmd_AppliesConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "parity.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("formats:\n  .wav: 42\n"), 0o644))

	stdout, _, err := execute(t, "formats", "--config", cfgPath)
	require.NoError(t, err)

	assert.Contains(t, stdout, "-> 42")
}

func TestVersionCmd_PrintsBuildInfo(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)

	assert.Contains(t, stdout, "audparity")
}

func TestHistoryCmd_NoDatabaseConfigured(t *testing.T) {
	chdir(t, t.TempDir())

	_, stderr, err := execute(t, "history")
	require.NoError(t, err)

	assert.Contains(t, stderr, "no history database configured")
}

func TestHistoryCmd_EmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	stdout, _, err := execute(t, "history", "--db", dbPath)
	require.NoError(t, err)

	assert.Contains(t, stdout, "history is empty")
}
