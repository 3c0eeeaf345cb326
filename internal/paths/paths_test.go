package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProjectRootFindsGitIndicator(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got := resolveFrom(nested)
	assert.Equal(t, root, got)
}

func TestResolveProjectRootFindsExistingClrunDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ClrunDir), 0o755))
	nested := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got := resolveFrom(nested)
	assert.Equal(t, root, got)
}

func TestResolveProjectRootFallsBackToStart(t *testing.T) {
	start := t.TempDir()
	got := resolveFrom(start)
	assert.Equal(t, start, got)
}

func TestGetLayoutPaths(t *testing.T) {
	l := Get("/project")
	assert.Equal(t, "/project/.clrun", l.Root)
	assert.Equal(t, "/project/.clrun/runtime.lock", l.RuntimeLock)
	assert.Equal(t, "/project/.clrun/ledger/events.log", l.EventsLog)
	assert.Equal(t, "/project/.clrun/skills", l.SkillsDir)
}

func TestEnsureDirsCreatesAllLayoutDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, EnsureDirs(root))

	l := Get(root)
	for _, d := range []string{l.Root, l.SessionsDir, l.QueuesDir, l.BuffersDir, l.LedgerDir, l.SkillsDir} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestSessionQueueBufferPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("/p", ".clrun", "sessions", "t1.json"), SessionPath("/p", "t1"))
	assert.Equal(t, filepath.Join("/p", ".clrun", "queues", "t1.json"), QueuePath("/p", "t1"))
	assert.Equal(t, filepath.Join("/p", ".clrun", "buffers", "t1.log"), BufferPath("/p", "t1"))
}
