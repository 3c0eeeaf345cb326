package frontend

import (
	"fmt"
	"time"

	"github.com/clrun/clrun/internal/buffer"
	"github.com/clrun/clrun/internal/clrunerrors"
	"github.com/clrun/clrun/internal/ledger"
	"github.com/clrun/clrun/internal/output"
	"github.com/clrun/clrun/internal/paths"
	"github.com/clrun/clrun/internal/procutil"
	"github.com/clrun/clrun/internal/queue"
	"github.com/clrun/clrun/internal/session"
	"golang.org/x/sys/unix"
)

const postEnqueueSettle = 400 * time.Millisecond
const postRestoreSettle = 600 * time.Millisecond

// Input implements `clrun input <terminal_id> <text>` (spec §4.11): enqueue
// text for delivery to a running session's PTY, waking its worker with
// SIGUSR1, or transparently restore a suspended session first.
func Input(terminalID, text string, priority int, override bool) {
	projectRoot, err := paths.ResolveProjectRoot()
	if err != nil {
		output.FailMessage(err.Error())
		return
	}

	warnings := ValidateInput(text)

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
		bufferBefore := buffer.Size(projectRoot, terminalID)

		if override {
			queue.EnqueueOverride(projectRoot, terminalID, text)
		} else {
			queue.EnqueueNormal(projectRoot, terminalID, text, priority)
		}

		RestoreSession(currentExecutable(), projectRoot, terminalID)
		time.Sleep(postRestoreSettle)

		newLines := buffer.ReadSince(projectRoot, terminalID, bufferBefore)
		rawOutput := output.CleanOutput(newLines, text)
		cleaned, outputWarnings := output.CheckOutputQuality(rawOutput)
		allWarnings := append(append(Warnings{}, warnings...), outputWarnings...)

		resp := map[string]interface{}{
			"terminal_id": terminalID,
			"input":       text,
			"mode":        modeString(override),
			"restored":    true,
		}
		if cleaned != "" {
			resp["output"] = cleaned
		}
		if len(allWarnings) > 0 {
			resp["warnings"] = []string(allWarnings)
		}
		resp["hints"] = map[string]string{
			"view_output":  fmt.Sprintf("clrun tail %s --lines 50", terminalID),
			"send_more":    fmt.Sprintf("clrun %s '<next command>'", terminalID),
			"check_status": "clrun status",
		}
		output.Success(resp)
		return
	}

	if sess.Status != session.StatusRunning {
		output.Fail(withError(SessionNotRunningHints(terminalID, sess.Status),
			(&clrunerrors.SessionNotRunningError{TerminalID: terminalID, Status: string(sess.Status)}).Error()))
		return
	}

	if !procutil.Alive(sess.WorkerPID) {
		output.Fail(map[string]interface{}{
			"error": (&clrunerrors.WorkerNotAliveError{TerminalID: terminalID, WorkerPID: sess.WorkerPID}).Error(),
			"hints": map[string]string{
				"note":         "The worker process has died. The session may need recovery.",
				"check_status": "clrun status",
				"start_new":    "clrun <command>",
			},
		})
		return
	}

	bufferBefore := buffer.Size(projectRoot, terminalID)

	if override {
		entry, cancelled, _ := queue.EnqueueOverride(projectRoot, terminalID, text)
		ledger.Log(projectRoot, ledger.EventInputOverride, terminalID, map[string]interface{}{
			"queue_id":        entry.QueueID,
			"input":           text,
			"cancelled_count": cancelled,
		})
		unix.Kill(sess.WorkerPID, unix.SIGUSR1)
		time.Sleep(postEnqueueSettle)

		newLines := buffer.ReadSince(projectRoot, terminalID, bufferBefore)
		rawOutput := output.CleanOutput(newLines, text)
		cleaned, outputWarnings := output.CheckOutputQuality(rawOutput)
		allWarnings := append(append(Warnings{}, warnings...), outputWarnings...)

		resp := map[string]interface{}{
			"terminal_id":     terminalID,
			"input":           text,
			"mode":            "override",
			"cancelled_count": cancelled,
		}
		if cleaned != "" {
			resp["output"] = cleaned
		}
		if len(allWarnings) > 0 {
			resp["warnings"] = []string(allWarnings)
		}
		resp["hints"] = map[string]string{
			"view_output":  fmt.Sprintf("clrun tail %s --lines 50", terminalID),
			"send_more":    fmt.Sprintf("clrun %s '<next command>'", terminalID),
			"check_status": "clrun status",
		}
		output.Success(resp)
		return
	}

	entry, _ := queue.EnqueueNormal(projectRoot, terminalID, text, priority)
	ledger.Log(projectRoot, ledger.EventInputQueued, terminalID, map[string]interface{}{
		"queue_id": entry.QueueID,
		"input":    text,
		"priority": priority,
	})
	unix.Kill(sess.WorkerPID, unix.SIGUSR1)
	time.Sleep(postEnqueueSettle)

	newLines := buffer.ReadSince(projectRoot, terminalID, bufferBefore)
	rawOutput := output.CleanOutput(newLines, text)
	cleaned, outputWarnings := output.CheckOutputQuality(rawOutput)
	allWarnings := append(append(Warnings{}, warnings...), outputWarnings...)

	resp := map[string]interface{}{
		"terminal_id":   terminalID,
		"input":         text,
		"priority":      priority,
		"mode":          "normal",
		"queue_pending": queue.PendingCount(projectRoot, terminalID),
	}
	if cleaned != "" {
		resp["output"] = cleaned
	}
	if len(allWarnings) > 0 {
		resp["warnings"] = []string(allWarnings)
	}
	resp["hints"] = map[string]string{
		"view_output":  fmt.Sprintf("clrun tail %s --lines 50", terminalID),
		"send_more":    fmt.Sprintf("clrun %s '<next command>'", terminalID),
		"override":     fmt.Sprintf("clrun input %s '<text>' --override", terminalID),
		"check_status": "clrun status",
	}
	output.Success(resp)
}

func modeString(override bool) string {
	if override {
		return "override"
	}
	return "normal"
}

func withError(hints map[string]interface{}, errMsg string) map[string]interface{} {
	return map[string]interface{}{
		"error": errMsg,
		"hints": hints,
	}
}
