package ledger

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clrun/clrun/internal/paths"
)

func TestLogAndRead(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Log(root, EventSessionCreated, "t1", map[string]interface{}{"command": "echo hi"}))
	require.NoError(t, Log(root, EventSessionExited, "t1", map[string]interface{}{"exit_code": 0}))

	events := Read(root)
	require.Len(t, events, 2)
	assert.Equal(t, string(EventSessionCreated), events[0]["event"])
	assert.Equal(t, "t1", events[0]["terminal_id"])
	assert.Equal(t, string(EventSessionExited), events[1]["event"])
}

func TestReadMissingFileReturnsNil(t *testing.T) {
	root := t.TempDir()
	assert.Nil(t, Read(root))
}

func TestReadSkipsUnparseableLines(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Log(root, EventRuntimeStarted, "", nil))

	f, err := os.OpenFile(paths.Get(root).EventsLog, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	events := Read(root)
	require.Len(t, events, 1)
	assert.Equal(t, string(EventRuntimeStarted), events[0]["event"])
}
