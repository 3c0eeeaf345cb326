package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndTail(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Init(root, "t1"))
	require.NoError(t, Append(root, "t1", []byte("one\ntwo\nthree\n")))

	assert.Equal(t, []string{"two", "three"}, Tail(root, "t1", 2))
	assert.Equal(t, []string{"one", "two", "three"}, Tail(root, "t1", 10))
}

func TestHeadSymmetricWithTail(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Init(root, "t1"))
	require.NoError(t, Append(root, "t1", []byte("a\nb\nc\nd\n")))

	assert.Equal(t, []string{"a", "b"}, Head(root, "t1", 2))
	assert.Equal(t, []string{"a", "b", "c", "d"}, Head(root, "t1", 100))
}

func TestTrailingEmptyTokenDropped(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Init(root, "t1"))

	// A buffer ending in a newline must not count a phantom trailing
	// empty line.
	require.NoError(t, Append(root, "t1", []byte("only line\n")))
	assert.Equal(t, 1, TotalLines(root, "t1"))

	// A buffer NOT ending in a newline counts its partial last line.
	root2 := t.TempDir()
	require.NoError(t, Init(root2, "t1"))
	require.NoError(t, Append(root2, "t1", []byte("first\npartial")))
	assert.Equal(t, 2, TotalLines(root2, "t1"))
	assert.Equal(t, []string{"first", "partial"}, Tail(root2, "t1", 10))
}

func TestReadSinceOffset(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Init(root, "t1"))
	require.NoError(t, Append(root, "t1", []byte("abc\n")))
	offset := Size(root, "t1")
	require.NoError(t, Append(root, "t1", []byte("def\nghi\n")))

	assert.Equal(t, []string{"def", "ghi"}, ReadSince(root, "t1", offset))
	assert.Nil(t, ReadSince(root, "t1", Size(root, "t1")))
}

func TestEmptyBufferReturnsEmpty(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Init(root, "t1"))
	assert.Nil(t, Tail(root, "t1", 10))
	assert.Equal(t, 0, TotalLines(root, "t1"))
}
