package frontend

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/clrun/clrun/internal/buffer"
	"github.com/clrun/clrun/internal/ledger"
	"github.com/clrun/clrun/internal/output"
	"github.com/clrun/clrun/internal/paths"
	"github.com/clrun/clrun/internal/queue"
	"github.com/clrun/clrun/internal/recovery"
	"github.com/clrun/clrun/internal/runtimelock"
	"github.com/clrun/clrun/internal/session"
	"github.com/clrun/clrun/internal/skills"
)

const (
	runMaxWait         = 5 * time.Second
	runPollInterval    = 150 * time.Millisecond
	runSettleAfterData = 300 * time.Millisecond
)

// Run implements `clrun run <command>` (and the bare `clrun <command>`
// shorthand): spawn a fresh worker, wait briefly for it to produce initial
// output or exit, and report whatever state settled out (spec §4.11, §8
// "run" scenario).
func Run(command string) {
	projectRoot, err := paths.ResolveProjectRoot()
	if err != nil {
		output.FailMessage(fmt.Sprintf("Failed to resolve project root: %s", err))
		return
	}
	cwd, _ := os.Getwd()

	warnings := ValidateCommand(command)

	if strings.TrimSpace(command) == "" {
		output.Fail(map[string]interface{}{
			"error": "No command provided.",
			"hints": map[string]string{
				"example":     "clrun echo 'hello world'",
				"interactive": "clrun 'python3 script.py'",
				"usage":       "clrun <command>",
			},
		})
		return
	}

	if err := paths.EnsureDirs(projectRoot); err != nil {
		output.FailMessage(fmt.Sprintf("Failed to initialize .clrun: %s", err))
		return
	}
	runtimelock.Acquire(projectRoot)
	recovery.Sweep(projectRoot)
	skills.Install(projectRoot)

	terminalID := session.NewTerminalID()
	queue.Init(projectRoot, terminalID)

	exe := currentExecutable()
	cmd := exec.Command(exe, "__worker", terminalID, command, cwd, projectRoot)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = detachedSysProcAttr()
	if err := cmd.Start(); err != nil {
		output.Fail(map[string]interface{}{
			"error": fmt.Sprintf("Failed to spawn session: %s", err),
			"hints": map[string]string{
				"check_install": "Ensure the clrun binary is on PATH and executable.",
			},
		})
		return
	}
	workerPID := cmd.Process.Pid
	cmd.Process.Release()

	ledger.Log(projectRoot, ledger.EventSessionCreated, terminalID, map[string]interface{}{
		"command":    command,
		"cwd":        cwd,
		"worker_pid": workerPID,
	})

	bufferStart := buffer.Size(projectRoot, terminalID)
	sessionStatus := string(session.StatusRunning)
	var exitCode *int

	deadline := time.Now().Add(runMaxWait)
	for time.Now().Before(deadline) {
		time.Sleep(runPollInterval)

		currentSize := buffer.Size(projectRoot, terminalID)
		hasNewOutput := currentSize > bufferStart

		sess, _ := session.Read(projectRoot, terminalID)
		if sess != nil {
			sessionStatus = string(sess.Status)
			exitCode = sess.LastExitCode
		}

		if sess != nil && sess.Status == session.StatusExited {
			break
		}
		if hasNewOutput {
			time.Sleep(runSettleAfterData)
			if updated, _ := session.Read(projectRoot, terminalID); updated != nil {
				sessionStatus = string(updated.Status)
				exitCode = updated.LastExitCode
			}
			break
		}
	}

	newLines := buffer.ReadSince(projectRoot, terminalID, bufferStart)
	rawOutput := output.CleanOutput(newLines, command)
	cleaned, outputWarnings := output.CheckOutputQuality(rawOutput)

	allWarnings := append(append(Warnings{}, warnings...), outputWarnings...)

	response := map[string]interface{}{
		"terminal_id": terminalID,
		"command":     command,
		"cwd":         cwd,
		"status":      sessionStatus,
	}
	if exitCode != nil {
		response["exit_code"] = *exitCode
	}
	if cleaned != "" {
		response["output"] = cleaned
	}
	if len(allWarnings) > 0 {
		response["warnings"] = []string(allWarnings)
	}

	switch {
	case sessionStatus == string(session.StatusRunning):
		hints := output.SessionHints(terminalID)
		response["hints"] = map[string]interface{}{
			"view_output":        hints["view_output"],
			"send_input":         hints["send_input"],
			"send_with_priority": hints["send_with_priority"],
			"override_queue":     hints["override_queue"],
			"kill_session":       hints["kill_session"],
			"check_status":       hints["check_status"],
			"note":               "Session is running. Use single quotes for shell variables: clrun <id> 'echo $VAR'",
		}
	case sessionStatus == string(session.StatusExited) && exitCode != nil && *exitCode != 0:
		response["hints"] = map[string]string{
			"read_full_output": fmt.Sprintf("clrun tail %s --lines 100", terminalID),
			"start_new":        "clrun <command>",
			"note":             fmt.Sprintf("Command exited with code %d. Check output for errors.", *exitCode),
		}
	}

	output.Success(response)
}
