package frontend

import (
	"os"

	"github.com/clrun/clrun/internal/output"
	"github.com/clrun/clrun/internal/paths"
	"github.com/clrun/clrun/internal/queue"
	"github.com/clrun/clrun/internal/recovery"
	"github.com/clrun/clrun/internal/session"
)

// Status implements `clrun status` (spec §4.11): sweep for crashed sessions,
// then report every session grouped by status.
func Status() {
	projectRoot, err := paths.ResolveProjectRoot()
	if err != nil {
		output.FailMessage(err.Error())
		return
	}

	l := paths.Get(projectRoot)
	if _, err := os.Stat(l.Root); err != nil {
		output.FailMessage("No .clrun directory found. Run `clrun <command>` to initialize.")
		return
	}

	recovery.Sweep(projectRoot)
	sessions, err := session.List(projectRoot)
	if err != nil {
		output.FailMessage(err.Error())
		return
	}

	var enriched []map[string]interface{}
	counts := map[session.Status]int{}
	for _, s := range sessions {
		counts[s.Status]++
		entry := map[string]interface{}{
			"terminal_id":       s.TerminalID,
			"command":           s.Command,
			"status":            string(s.Status),
			"pid":               s.PID,
			"queue_length":      queue.PendingCount(projectRoot, s.TerminalID),
			"created_at":        s.CreatedAt,
			"last_activity_at":  s.LastActivityAt,
		}
		if s.LastExitCode != nil {
			entry["exit_code"] = *s.LastExitCode
		}
		if s.Status == session.StatusSuspended && s.SavedState != nil {
			entry["suspended_at"] = s.SavedState.CapturedAt
			entry["saved_cwd"] = s.SavedState.CWD
		}
		enriched = append(enriched, entry)
	}

	output.Success(map[string]interface{}{
		"project":   projectRoot,
		"running":   counts[session.StatusRunning],
		"suspended": counts[session.StatusSuspended],
		"exited":    counts[session.StatusExited],
		"detached":  counts[session.StatusDetached],
		"killed":    counts[session.StatusKilled],
		"sessions":  enriched,
		"hints": map[string]string{
			"view_session":      "clrun <terminal_id>",
			"send_input":        `clrun <terminal_id> "<command>"`,
			"resume_suspended":  `clrun <terminal_id> "<command>"  # auto-restores`,
			"kill_session":      "clrun kill <terminal_id>",
			"new_session":       "clrun <command>",
		},
	})
}
