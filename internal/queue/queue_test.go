package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityOrdering(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Init(root, "t1"))

	_, err := EnqueueNormal(root, "t1", "low", 0)
	require.NoError(t, err)
	_, err = EnqueueNormal(root, "t1", "high", 5)
	require.NoError(t, err)

	next := PeekNext(root, "t1")
	require.NotNil(t, next)
	assert.Equal(t, "high", next.Input)
}

func TestFIFOWithinSamePriority(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Init(root, "t1"))

	first, err := EnqueueNormal(root, "t1", "first", 0)
	require.NoError(t, err)
	_, err = EnqueueNormal(root, "t1", "second", 0)
	require.NoError(t, err)

	next := PeekNext(root, "t1")
	require.NotNil(t, next)
	assert.Equal(t, first.QueueID, next.QueueID)
}

func TestOverrideCancelsQueuedEntries(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Init(root, "t1"))

	_, err := EnqueueNormal(root, "t1", "a", 0)
	require.NoError(t, err)
	_, err = EnqueueNormal(root, "t1", "b", 0)
	require.NoError(t, err)

	entry, cancelled, err := EnqueueOverride(root, "t1", "urgent")
	require.NoError(t, err)
	assert.Equal(t, 2, cancelled)
	assert.Equal(t, ModeOverride, entry.Mode)

	next := PeekNext(root, "t1")
	require.NotNil(t, next)
	assert.Equal(t, "urgent", next.Input)
	assert.Equal(t, 1, PendingCount(root, "t1"))
}

func TestMarkSentRemovesFromPending(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Init(root, "t1"))

	entry, err := EnqueueNormal(root, "t1", "a", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, PendingCount(root, "t1"))

	require.NoError(t, MarkSent(root, "t1", entry.QueueID))
	assert.Equal(t, 0, PendingCount(root, "t1"))
	assert.Nil(t, PeekNext(root, "t1"))
}
