// Package frontend implements the seven short-lived CLI commands (spec
// §4.11, §6): run, input, key, tail, head, status, kill. Each command
// resolves the project root, does its file I/O, and renders exactly one
// YAML response via internal/output before exiting — mirroring the
// teacher's cmd/grove subcommand files (cmd_watch.go, etc.), generalized
// from one socket-RPC call per subcommand to one filesystem operation per
// subcommand, since spec §2 rules out a central daemon to call.
package frontend

import (
	"os"
	"regexp"
	"strings"

	"github.com/clrun/clrun/internal/paths"
	"github.com/clrun/clrun/internal/session"
)

var devProcPath = regexp.MustCompile(`/dev/|/proc/`)
var bareIOCommand = regexp.MustCompile(`^(echo|printf|cat)\s*$`)

// Warnings is a slice of advisory strings surfaced to the caller alongside
// a successful response — never fatal, unlike clrunerrors.
type Warnings []string

// ValidateCommand checks a `run` command string for the handful of
// agent-authoring mistakes the Python source flags (clrun/utils/validate.py
// validate_command): an empty command, or one that looks like it swallowed
// an unintended glob expansion from /dev or /proc.
func ValidateCommand(command string) Warnings {
	var warnings Warnings
	if strings.TrimSpace(command) == "" {
		warnings = append(warnings, "Command is empty. Provide a command to run: clrun <command>")
	}
	if devProcPath.MatchString(command) {
		warnings = append(warnings, "Command contains file paths that may be from unintended glob expansion. "+
			"Use single quotes if you intended literal wildcards: clrun 'ls *.txt'")
	}
	return warnings
}

// ValidateInput checks an `input` text payload for the same class of
// mistakes (clrun/utils/validate.py validate_input). `key` payloads are
// not passed through it.
func ValidateInput(text string) Warnings {
	var warnings Warnings
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		warnings = append(warnings, "Input is empty. If you intended to send a shell variable like $MY_VAR, "+
			"use single quotes to prevent your shell from expanding it: clrun <id> 'echo $MY_VAR'")
	}
	if bareIOCommand.MatchString(trimmed) {
		warnings = append(warnings, "Input \""+trimmed+"\" looks like a command with a missing argument. "+
			"If you intended to include a shell variable, use single quotes: clrun <id> 'echo $MY_VAR'")
	}
	return warnings
}

// SessionNotFoundHints builds the hint set for a session-not-found error,
// enriched with the project's currently active session ids when available
// (clrun/utils/validate.py session_not_found_error).
func SessionNotFoundHints(projectRoot, terminalID string) map[string]interface{} {
	hints := map[string]interface{}{
		"list_sessions": "clrun status",
		"start_new":     "clrun <command>",
	}

	l := paths.Get(projectRoot)
	if _, err := os.Stat(l.Root); err != nil {
		return hints
	}
	sessions, err := session.List(projectRoot)
	if err != nil {
		return hints
	}
	var running []string
	for _, s := range sessions {
		if s.Status == session.StatusRunning || s.Status == session.StatusSuspended {
			running = append(running, s.TerminalID)
		}
	}
	switch {
	case len(running) > 0:
		hints["active_sessions"] = strings.Join(running, ", ")
		hints["note"] = "Found active session(s) above. Use one of the IDs."
	case len(sessions) > 0:
		hints["note"] = "All sessions are terminated. Start a new one with: clrun <command>"
	default:
		hints["note"] = "No sessions exist. Start one with: clrun <command>"
	}
	return hints
}

// SessionNotRunningHints builds the hint set for a session-not-running
// error, tailored to the session's actual terminal status (clrun/utils/
// validate.py session_not_running_error).
func SessionNotRunningHints(terminalID string, status session.Status) map[string]interface{} {
	hints := map[string]interface{}{"check_status": "clrun status"}
	switch status {
	case session.StatusExited:
		hints["note"] = "This session has exited. You can still read its output."
		hints["read_output"] = "clrun tail " + terminalID + " --lines 50"
		hints["start_new"] = "clrun <command>"
	case session.StatusKilled:
		hints["note"] = "This session was killed. Start a new one."
		hints["start_new"] = "clrun <command>"
	case session.StatusDetached:
		hints["note"] = "This session was orphaned after a crash. Read its buffer or start fresh."
		hints["read_output"] = "clrun tail " + terminalID + " --lines 50"
		hints["start_new"] = "clrun <command>"
	default:
		hints["start_new"] = "clrun <command>"
	}
	return hints
}
