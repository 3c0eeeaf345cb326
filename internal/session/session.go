// Package session implements SessionRecord CRUD (spec §3, §4.4): one JSON
// file per session, named by terminal id, written through atomicfile so
// concurrent front-ends never observe a torn record.
//
// Update is read-modify-write, not compare-and-swap: when two front-ends
// race on the same session, the last writer wins for the fields they touch.
// That mirrors clrun/pty/pty_manager.py's update_session, and is acceptable
// per spec §4.4 because the worker is the authoritative writer and
// reconciles on its next loop iteration.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clrun/clrun/internal/atomicfile"
	"github.com/clrun/clrun/internal/paths"
)

// Status is one of the five states a SessionRecord may be in.
type Status string

const (
	StatusRunning   Status = "running"
	StatusExited    Status = "exited"
	StatusDetached  Status = "detached"
	StatusKilled    Status = "killed"
	StatusSuspended Status = "suspended"
)

// SavedState is the captured shell cwd/environment written on suspend and
// replayed on restore (spec §3, §4.10).
type SavedState struct {
	CWD         string            `json:"cwd"`
	Env         map[string]string `json:"env"`
	CapturedAt  string            `json:"captured_at"`
}

// Record is one session's persistent metadata (spec §3 SessionRecord).
type Record struct {
	TerminalID     string      `json:"terminal_id"`
	CreatedAt      string      `json:"created_at"`
	CWD            string      `json:"cwd"`
	Command        string      `json:"command"`
	Shell          string      `json:"shell"`
	Status         Status      `json:"status"`
	PID            int         `json:"pid"`
	WorkerPID      int         `json:"worker_pid"`
	QueueLength    int         `json:"queue_length"`
	LastExitCode   *int        `json:"last_exit_code"`
	LastActivityAt string      `json:"last_activity_at"`
	SavedState     *SavedState `json:"saved_state,omitempty"`
}

// NowISO returns the current UTC time in RFC3339 form, the same timestamp
// shape clrun/worker.py's now_iso() produces via datetime.isoformat().
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// NewTerminalID generates a fresh UUID-v4 terminal id.
func NewTerminalID() string {
	return uuid.NewString()
}

// DetectShell returns $SHELL if set, else a POSIX fallback, recorded once at
// session creation and never re-derived (spec §4.4).
func DetectShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

// Write persists rec under its terminal id via atomicfile.
func Write(projectRoot string, rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshal %s: %w", rec.TerminalID, err)
	}
	return atomicfile.Write(paths.SessionPath(projectRoot, rec.TerminalID), data)
}

// Read loads the record for terminalID, or (nil, nil) if it does not exist.
func Read(projectRoot, terminalID string) (*Record, error) {
	data, err := os.ReadFile(paths.SessionPath(projectRoot, terminalID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("session: read %s: %w", terminalID, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("session: parse %s: %w", terminalID, err)
	}
	return &rec, nil
}

// Update applies fn to the current record and writes the result back. It
// returns (nil, nil) if no record exists for terminalID. fn mutates rec
// in place.
func Update(projectRoot, terminalID string, fn func(rec *Record)) (*Record, error) {
	rec, err := Read(projectRoot, terminalID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	fn(rec)
	if err := Write(projectRoot, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns every session record under the project root, skipping files
// that fail to parse (mirrors clrun/pty/pty_manager.py's list_sessions,
// which swallows per-file errors rather than aborting the whole listing).
func List(projectRoot string) ([]*Record, error) {
	dir := paths.Get(projectRoot).SessionsDir
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("session: list %s: %w", dir, err)
	}
	var out []*Record
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		terminalID := strings.TrimSuffix(name, ".json")
		rec, err := Read(projectRoot, terminalID)
		if err != nil || rec == nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// StateCWDPath and StateEnvPath are the transient capture files the worker's
// suspend procedure writes via shell redirection and deletes afterward
// (spec §4.10).
func StateCWDPath(projectRoot, terminalID string) string {
	return filepath.Join(paths.Get(projectRoot).SessionsDir, terminalID+".state.cwd")
}

func StateEnvPath(projectRoot, terminalID string) string {
	return filepath.Join(paths.Get(projectRoot).SessionsDir, terminalID+".state.env")
}
