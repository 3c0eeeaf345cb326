package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clrun/clrun/internal/paths"
)

func TestWriteReadRoundTrip(t *testing.T) {
	root := t.TempDir()
	rec := &Record{
		TerminalID: "abc-123",
		CreatedAt:  NowISO(),
		CWD:        "/tmp",
		Command:    "echo hi",
		Shell:      "/bin/bash",
		Status:     StatusRunning,
		PID:        100,
		WorkerPID:  101,
	}
	require.NoError(t, Write(root, rec))

	got, err := Read(root, "abc-123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.Command, got.Command)
	assert.Equal(t, StatusRunning, got.Status)
}

func TestReadMissingReturnsNilNil(t *testing.T) {
	root := t.TempDir()
	got, err := Read(root, "does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateMutatesAndPersists(t *testing.T) {
	root := t.TempDir()
	rec := &Record{TerminalID: "t1", Status: StatusRunning, CreatedAt: NowISO()}
	require.NoError(t, Write(root, rec))

	updated, err := Update(root, "t1", func(r *Record) {
		r.Status = StatusExited
		code := 0
		r.LastExitCode = &code
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, StatusExited, updated.Status)

	reread, err := Read(root, "t1")
	require.NoError(t, err)
	require.NotNil(t, reread.LastExitCode)
	assert.Equal(t, 0, *reread.LastExitCode)
}

func TestUpdateMissingReturnsNilNil(t *testing.T) {
	root := t.TempDir()
	updated, err := Update(root, "ghost", func(r *Record) { r.Status = StatusKilled })
	assert.NoError(t, err)
	assert.Nil(t, updated)
}

func TestListSkipsUnparseableFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Write(root, &Record{TerminalID: "good", Status: StatusRunning, CreatedAt: NowISO()}))
	require.NoError(t, os.WriteFile(filepath.Join(paths.Get(root).SessionsDir, "bad.json"), []byte("{not json"), 0o644))

	sessions, err := List(root)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "good", sessions[0].TerminalID)
}

func TestNewTerminalIDIsUnique(t *testing.T) {
	a := NewTerminalID()
	b := NewTerminalID()
	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, a)
}
