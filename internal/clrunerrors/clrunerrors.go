// Package clrunerrors defines the error kinds the core must distinguish
// (spec §7), expressed as typed errors carrying the structured hint data
// the front-end turns into a YAML error document (internal/output),
// instead of the Python source's ad-hoc dict-returning helpers
// (clrun/utils/validate.py's session_not_found_error, etc.).
package clrunerrors

import "fmt"

// SessionNotFoundError means no record file exists for the terminal id.
type SessionNotFoundError struct {
	TerminalID string
	// ActiveSessions lists other live session ids to hint at. The front-end
	// commands leave it empty and build their hints with
	// frontend.SessionNotFoundHints instead.
	ActiveSessions []string
	TotalSessions  int
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("session not found: %s", e.TerminalID)
}

// SessionNotRunningError means the record exists but isn't status=running.
type SessionNotRunningError struct {
	TerminalID string
	Status     string
}

func (e *SessionNotRunningError) Error() string {
	return fmt.Sprintf("session is not running (status: %s)", e.Status)
}

// WorkerNotAliveError means the record says running but the worker pid is
// gone. Crash recovery will reclassify it at the next sweep.
type WorkerNotAliveError struct {
	TerminalID string
	WorkerPID  int
}

func (e *WorkerNotAliveError) Error() string {
	return fmt.Sprintf("session worker is not alive (PID: %d)", e.WorkerPID)
}

// UnknownKeyError means one or more requested keystroke names fall outside
// the closed set.
type UnknownKeyError struct {
	Names []string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown key name(s): %v", e.Names)
}

// EmptyCommandError means a run request carried an empty command string.
type EmptyCommandError struct{}

func (e *EmptyCommandError) Error() string { return "no command provided" }

// CaptureFailureError means suspend capture produced no usable cwd/env.
// Suspend still completes with partial data; this is informational only.
type CaptureFailureError struct {
	TerminalID string
}

func (e *CaptureFailureError) Error() string {
	return fmt.Sprintf("suspend capture failed for session %s", e.TerminalID)
}

// LockContentionError means an existing runtime is already live. The
// condition is non-fatal: runtimelock.Acquire reports it as
// Result.Attached and does not return this type.
type LockContentionError struct {
	ExistingPID int
}

func (e *LockContentionError) Error() string {
	return fmt.Sprintf("runtime already active (PID: %d)", e.ExistingPID)
}
