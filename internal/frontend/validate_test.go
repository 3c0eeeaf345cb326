package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clrun/clrun/internal/session"
)

func TestValidateCommandEmpty(t *testing.T) {
	warnings := ValidateCommand("   ")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "empty")
}

func TestValidateCommandDevProcPath(t *testing.T) {
	warnings := ValidateCommand("cat /dev/null/*")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "glob expansion")
}

func TestValidateCommandClean(t *testing.T) {
	assert.Empty(t, ValidateCommand("echo hello"))
}

func TestValidateInputEmpty(t *testing.T) {
	warnings := ValidateInput("")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "empty")
}

func TestValidateInputBareEcho(t *testing.T) {
	warnings := ValidateInput("echo")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "missing argument")
}

func TestValidateInputClean(t *testing.T) {
	assert.Empty(t, ValidateInput("echo $MY_VAR"))
}

func TestSessionNotFoundHintsNoClrunDir(t *testing.T) {
	root := t.TempDir()
	hints := SessionNotFoundHints(root, "ghost")
	assert.Equal(t, "clrun status", hints["list_sessions"])
	_, hasNote := hints["note"]
	assert.False(t, hasNote)
}

func TestSessionNotFoundHintsListsActiveSessions(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, session.Write(root, &session.Record{
		TerminalID: "running-one",
		Status:     session.StatusRunning,
		CreatedAt:  session.NowISO(),
	}))

	hints := SessionNotFoundHints(root, "ghost")
	assert.Contains(t, hints["active_sessions"], "running-one")
}

func TestSessionNotRunningHintsExited(t *testing.T) {
	hints := SessionNotRunningHints("t1", session.StatusExited)
	assert.Contains(t, hints["note"], "exited")
	assert.Contains(t, hints["read_output"], "t1")
}

func TestSessionNotRunningHintsKilled(t *testing.T) {
	hints := SessionNotRunningHints("t1", session.StatusKilled)
	assert.Contains(t, hints["note"], "killed")
}
