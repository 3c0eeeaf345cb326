package frontend

import (
	"fmt"

	"github.com/clrun/clrun/internal/buffer"
	"github.com/clrun/clrun/internal/clrunerrors"
	"github.com/clrun/clrun/internal/output"
	"github.com/clrun/clrun/internal/paths"
	"github.com/clrun/clrun/internal/session"
)

// Tail implements `clrun tail <terminal_id> --lines N` (spec §4.11, §4.3):
// render the last N lines of a session's output buffer.
func Tail(terminalID string, lines int) {
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

	rawLines := buffer.Tail(projectRoot, terminalID, lines)
	totalLines := buffer.TotalLines(projectRoot, terminalID)
	rawOutput := output.CleanOutput(rawLines, "")
	cleaned, warnings := output.CheckOutputQuality(rawOutput)

	resp := map[string]interface{}{
		"terminal_id": terminalID,
		"command":     sess.Command,
		"status":      string(sess.Status),
		"total_lines": totalLines,
	}
	if sess.LastExitCode != nil {
		resp["exit_code"] = *sess.LastExitCode
	}
	if cleaned != "" {
		resp["output"] = cleaned
	}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}

	switch sess.Status {
	case session.StatusRunning:
		resp["hints"] = map[string]string{
			"send_input":         fmt.Sprintf("clrun %s '<command>'", terminalID),
			"send_with_priority": fmt.Sprintf("clrun input %s '<response>' --priority 5", terminalID),
			"override":           fmt.Sprintf("clrun input %s '<text>' --override", terminalID),
			"more_output":        fmt.Sprintf("clrun tail %s --lines %d", terminalID, lines*2),
			"kill":               fmt.Sprintf("clrun kill %s", terminalID),
			"note":               "Use single quotes for shell variables: clrun <id> 'echo $VAR'",
		}
	case session.StatusSuspended:
		if sess.SavedState != nil {
			resp["suspended_at"] = sess.SavedState.CapturedAt
		}
		resp["hints"] = map[string]string{
			"resume":    fmt.Sprintf("clrun %s '<command>'  # auto-restores env and cwd", terminalID),
			"view_more": fmt.Sprintf("clrun tail %s --lines %d", terminalID, lines*2),
			"kill":      fmt.Sprintf("clrun kill %s", terminalID),
		}
	case session.StatusExited:
		resp["hints"] = map[string]string{
			"view_more": fmt.Sprintf("clrun tail %s --lines %d", terminalID, lines*2),
			"start_new": "clrun <command>",
		}
	}

	output.Success(resp)
}
