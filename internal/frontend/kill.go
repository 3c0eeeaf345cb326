package frontend

import (
	"fmt"

	"github.com/clrun/clrun/internal/clrunerrors"
	"github.com/clrun/clrun/internal/ledger"
	"github.com/clrun/clrun/internal/output"
	"github.com/clrun/clrun/internal/paths"
	"github.com/clrun/clrun/internal/procutil"
	"github.com/clrun/clrun/internal/session"
	"golang.org/x/sys/unix"
)

// Kill implements `clrun kill <terminal_id>` (spec §4.11): signal both the
// worker and PTY process with SIGTERM and mark the record killed. A
// terminated session refuses a second kill rather than silently no-oping.
func Kill(terminalID string) {
	projectRoot, err := paths.ResolveProjectRoot()
	if err != nil {
		output.FailMessage(err.Error())
		return
	}

	sess, err := session.Read(projectRoot, terminalID)
	if err != nil {
		output.FailMessage(err.Error())
		return
	}
	if sess == nil {
		output.Fail(withError(SessionNotFoundHints(projectRoot, terminalID),
			(&clrunerrors.SessionNotFoundError{TerminalID: terminalID}).Error()))
		return
	}

	if sess.Status == session.StatusExited || sess.Status == session.StatusKilled {
		output.Fail(map[string]interface{}{
			"error": fmt.Sprintf("Session already terminated (status: %s)", sess.Status),
			"hints": map[string]string{
				"read_output":  fmt.Sprintf("clrun tail %s --lines 50", terminalID),
				"start_new":    "clrun <command>",
				"check_status": "clrun status",
			},
		})
		return
	}

	workerKilled := false
	if procutil.Alive(sess.WorkerPID) {
		if unix.Kill(sess.WorkerPID, unix.SIGTERM) == nil {
			workerKilled = true
		}
	}

	ptyKilled := false
	if procutil.Alive(sess.PID) {
		if unix.Kill(sess.PID, unix.SIGTERM) == nil {
			ptyKilled = true
		}
	}

	session.Update(projectRoot, terminalID, func(rec *session.Record) {
		rec.Status = session.StatusKilled
		rec.LastActivityAt = session.NowISO()
	})

	ledger.Log(projectRoot, ledger.EventSessionKilled, terminalID, map[string]interface{}{
		"worker_killed": workerKilled,
		"pty_killed":    ptyKilled,
	})

	output.Success(map[string]interface{}{
		"terminal_id": terminalID,
		"status":      "killed",
		"hints": map[string]string{
			"check_status": "clrun status",
			"new_session":  "clrun <command>",
		},
	})
}
