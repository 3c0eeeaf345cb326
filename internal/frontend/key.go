package frontend

import (
	"fmt"
	"strings"
	"time"

	"github.com/clrun/clrun/internal/buffer"
	"github.com/clrun/clrun/internal/clrunerrors"
	"github.com/clrun/clrun/internal/keys"
	"github.com/clrun/clrun/internal/ledger"
	"github.com/clrun/clrun/internal/output"
	"github.com/clrun/clrun/internal/paths"
	"github.com/clrun/clrun/internal/procutil"
	"github.com/clrun/clrun/internal/queue"
	"github.com/clrun/clrun/internal/session"
	"golang.org/x/sys/unix"
)

// keyQueuePriority is the fixed priority named keystrokes are enqueued at —
// high enough to jump ahead of ordinary text responses queued earlier,
// without resorting to an override (spec §6).
const keyQueuePriority = 999

const postKeySettle = 400 * time.Millisecond
const postKeyRestoreSettle = 300 * time.Millisecond

// Key implements `clrun key <terminal_id> <key> [<key>...]` (spec §4.11,
// §6): resolve each name against the closed keystroke table, concatenate
// their raw sequences, and enqueue them as one raw-marked entry.
func Key(terminalID string, names []string) {
	projectRoot, err := paths.ResolveProjectRoot()
	if err != nil {
		output.FailMessage(err.Error())
		return
	}

	sequence, unknown := keys.ResolveAll(names)
	if len(unknown) > 0 {
		output.Fail(map[string]interface{}{
			"error": (&clrunerrors.UnknownKeyError{Names: unknown}).Error(),
			"hints": map[string]string{
				"available_keys": strings.Join(keys.Names(), ", "),
				"example":        "clrun key <id> down down enter",
				"note":           `Keys are case-insensitive. Use "clrun input" for text input.`,
			},
		})
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

	if sess.Status == session.StatusSuspended {
		RestoreSession(currentExecutable(), projectRoot, terminalID)
		sess, _ = session.Read(projectRoot, terminalID)
		time.Sleep(postKeyRestoreSettle)
	}

	if sess != nil && sess.Status != session.StatusRunning {
		output.Fail(withError(SessionNotRunningHints(terminalID, sess.Status),
			(&clrunerrors.SessionNotRunningError{TerminalID: terminalID, Status: string(sess.Status)}).Error()))
		return
	}

	if !procutil.Alive(sess.WorkerPID) {
		output.Fail(map[string]interface{}{
			"error": (&clrunerrors.WorkerNotAliveError{TerminalID: terminalID, WorkerPID: sess.WorkerPID}).Error(),
			"hints": map[string]string{
				"check_status": "clrun status",
				"start_new":    "clrun <command>",
			},
		})
		return
	}

	if _, err := queue.EnqueueNormal(projectRoot, terminalID, keys.RawPrefix+sequence, keyQueuePriority); err != nil {
		output.FailMessage(err.Error())
		return
	}

	unix.Kill(sess.WorkerPID, unix.SIGUSR1)

	ledger.Log(projectRoot, ledger.EventKeySent, terminalID, map[string]interface{}{
		"keys":            names,
		"sequence_length": len(sequence),
	})

	bufferBefore := buffer.Size(projectRoot, terminalID)
	time.Sleep(postKeySettle)

	newLines := buffer.ReadSince(projectRoot, terminalID, bufferBefore)
	cleaned := output.CleanOutput(newLines, "")

	resp := map[string]interface{}{
		"terminal_id": terminalID,
		"keys_sent":   names,
	}
	if cleaned != "" {
		resp["output"] = cleaned
	}
	resp["hints"] = map[string]string{
		"send_more_keys": fmt.Sprintf("clrun key %s <key> [<key>...]", terminalID),
		"send_text":      fmt.Sprintf("clrun %s '<text>'", terminalID),
		"view_output":    fmt.Sprintf("clrun tail %s --lines 50", terminalID),
		"available_keys": "up, down, left, right, enter, tab, escape, space, backspace, ctrl-c, ctrl-d",
	}
	output.Success(resp)
}
