package runtimelock

import (
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clrun/clrun/internal/paths"
)

func TestAcquireFreshLock(t *testing.T) {
	root := t.TempDir()
	res, err := Acquire(root)
	require.NoError(t, err)
	assert.True(t, res.Acquired)
	assert.False(t, res.Attached)
	assert.True(t, IsActive(root))

	desc := ReadDescriptor(root)
	require.NotNil(t, desc)
	assert.Equal(t, os.Getpid(), desc.PID)
	assert.Equal(t, Version, desc.Version)
}

func TestAcquireAttachesToLiveProcess(t *testing.T) {
	root := t.TempDir()
	_, err := Acquire(root)
	require.NoError(t, err)

	res, err := Acquire(root)
	require.NoError(t, err)
	assert.True(t, res.Attached)
	assert.Equal(t, os.Getpid(), res.ExistingPID)
}

func TestAcquireCleansStaleLock(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, paths.EnsureDirs(root))
	l := paths.Get(root)

	require.NoError(t, os.WriteFile(l.RuntimeLock, []byte("99999999\n0"), 0o644))
	require.NoError(t, os.WriteFile(l.RuntimePID, []byte(strconv.Itoa(99999999)), 0o644))

	res, err := Acquire(root)
	require.NoError(t, err)
	assert.True(t, res.Acquired)
	assert.False(t, res.Attached)
}

func TestReleaseRemovesLockFiles(t *testing.T) {
	root := t.TempDir()
	_, err := Acquire(root)
	require.NoError(t, err)
	require.True(t, IsActive(root))

	Release(root)
	assert.False(t, IsActive(root))
	assert.Nil(t, ReadDescriptor(root))
}

func TestCleanupStaleRemovesDeadPID(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, paths.EnsureDirs(root))
	l := paths.Get(root)
	require.NoError(t, os.WriteFile(l.RuntimePID, []byte("99999999"), 0o644))

	removed := CleanupStale(root)
	assert.True(t, removed)
}

func TestCleanupStaleLeavesLiveProcessAlone(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, paths.EnsureDirs(root))
	l := paths.Get(root)
	require.NoError(t, os.WriteFile(l.RuntimePID, []byte(strconv.Itoa(os.Getpid())), 0o644))

	removed := CleanupStale(root)
	assert.False(t, removed)
}
