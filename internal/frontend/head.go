package frontend

import (
	"fmt"

	"github.com/clrun/clrun/internal/buffer"
	"github.com/clrun/clrun/internal/clrunerrors"
	"github.com/clrun/clrun/internal/output"
	"github.com/clrun/clrun/internal/paths"
	"github.com/clrun/clrun/internal/session"
)

// Head implements `clrun head <terminal_id> --lines N`, symmetric with Tail
// (spec §4.11, §4.3).
func Head(terminalID string, lines int) {
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

	rawLines := buffer.Head(projectRoot, terminalID, lines)
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

	if sess.Status == session.StatusRunning {
		resp["hints"] = map[string]string{
			"send_input":  fmt.Sprintf("clrun %s '<command>'", terminalID),
			"override":    fmt.Sprintf("clrun input %s '<text>' --override", terminalID),
			"more_output": fmt.Sprintf("clrun head %s --lines %d", terminalID, lines*2),
			"tail":        fmt.Sprintf("clrun tail %s --lines 50", terminalID),
			"kill":        fmt.Sprintf("clrun kill %s", terminalID),
		}
	}

	output.Success(resp)
}
