package recovery

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clrun/clrun/internal/ledger"
	"github.com/clrun/clrun/internal/session"
)

func TestSweepDetachesDeadRunningSession(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, session.Write(root, &session.Record{
		TerminalID: "dead",
		Status:     session.StatusRunning,
		PID:        99999999,
		WorkerPID:  99999998,
		CreatedAt:  session.NowISO(),
	}))

	res, err := Sweep(root)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Recovered)
	require.Len(t, res.Detached, 1)
	assert.Equal(t, "dead", res.Detached[0].TerminalID)

	reread, err := session.Read(root, "dead")
	require.NoError(t, err)
	assert.Equal(t, session.StatusDetached, reread.Status)

	events := ledger.Read(root)
	require.Len(t, events, 1)
	assert.Equal(t, string(ledger.EventSessionDetached), events[0]["event"])
}

func TestSweepLeavesLiveSessionAlone(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, session.Write(root, &session.Record{
		TerminalID: "alive",
		Status:     session.StatusRunning,
		PID:        os.Getpid(),
		WorkerPID:  os.Getpid(),
		CreatedAt:  session.NowISO(),
	}))

	res, err := Sweep(root)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Recovered)
	require.Len(t, res.Active, 1)
}

func TestSweepIsIdempotent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, session.Write(root, &session.Record{
		TerminalID: "dead",
		Status:     session.StatusRunning,
		PID:        99999999,
		WorkerPID:  99999998,
		CreatedAt:  session.NowISO(),
	}))

	_, err := Sweep(root)
	require.NoError(t, err)

	res2, err := Sweep(root)
	require.NoError(t, err)
	assert.Equal(t, 0, res2.Recovered)
	require.Len(t, res2.Detached, 1)
}

func TestSweepSkipsExitedSessions(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, session.Write(root, &session.Record{
		TerminalID: "exited",
		Status:     session.StatusExited,
		CreatedAt:  session.NowISO(),
	}))

	res, err := Sweep(root)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Recovered)
	assert.Empty(t, res.Active)
	assert.Empty(t, res.Detached)
}
