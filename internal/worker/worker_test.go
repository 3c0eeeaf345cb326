package worker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDenylistedEnvVar(t *testing.T) {
	assert.True(t, isDenylistedEnvVar("PWD"))
	assert.True(t, isDenylistedEnvVar("SHLVL"))
	assert.True(t, isDenylistedEnvVar("TERM_PROGRAM"))
	assert.True(t, isDenylistedEnvVar("TERM_SESSION_ID"))
	assert.False(t, isDenylistedEnvVar("MY_CUSTOM_VAR"))
	assert.False(t, isDenylistedEnvVar("PATH"))
}

func TestReadCaptureParsesNULSeparatedEnv(t *testing.T) {
	dir := t.TempDir()
	cwdPath := filepath.Join(dir, "cwd")
	envPath := filepath.Join(dir, "env")

	require.NoError(t, os.WriteFile(cwdPath, []byte("/home/agent/project\n"), 0o644))
	envContent := "FOO=bar\x00BAZ=qux=extra\x00PWD=/home/agent/project\x00"
	require.NoError(t, os.WriteFile(envPath, []byte(envContent), 0o644))

	cwd, env, ok := readCapture(cwdPath, envPath)
	assert.True(t, ok)
	assert.Equal(t, "/home/agent/project", cwd)
	assert.Equal(t, "bar", env["FOO"])
	assert.Equal(t, "qux=extra", env["BAZ"])
	_, hasPWD := env["PWD"]
	assert.False(t, hasPWD, "PWD is denylisted and must not be captured")
}

func TestReadCaptureMissingCWDFile(t *testing.T) {
	dir := t.TempDir()
	_, _, ok := readCapture(filepath.Join(dir, "nope"), filepath.Join(dir, "alsonope"))
	assert.False(t, ok)
}

func TestReadCaptureEmptyCWDFile(t *testing.T) {
	dir := t.TempDir()
	cwdPath := filepath.Join(dir, "cwd")
	envPath := filepath.Join(dir, "env")
	require.NoError(t, os.WriteFile(cwdPath, []byte("   \n"), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte(""), 0o644))

	_, _, ok := readCapture(cwdPath, envPath)
	assert.False(t, ok)
}

func TestExitCodeFromNilError(t *testing.T) {
	assert.Equal(t, 0, exitCodeFrom(nil))
}
