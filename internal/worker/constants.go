package worker

import "time"

// Fixed correctness-relevant constants, centralized per spec §9's design
// note on the PTY window size: "implementations should centralize the
// constant."
const (
	// IdleTimeout is how long a session may go without PTY output or queued
	// input before the worker suspends it (spec §4.9 step 5).
	IdleTimeout = 5 * time.Minute

	// SuspendCaptureWait is how long the worker waits for the shell to
	// flush its cwd/env capture files before reading them (spec §4.10).
	SuspendCaptureWait = 600 * time.Millisecond

	// InitialInjectionDelay lets the shell print its prompt before the
	// worker sends the original command or the restore exports (spec §4.9).
	InitialInjectionDelay = 80 * time.Millisecond

	// LoopSleep is the worker's per-iteration sleep (spec §4.9 step 6).
	LoopSleep = 100 * time.Millisecond

	// HeartbeatInterval bounds how often the worker touches last_activity_at
	// purely to prove liveness, independent of real activity (spec §4.9
	// step 4).
	HeartbeatInterval = 5 * time.Second

	// PTYRows and PTYCols are the fixed PTY dimensions (spec §4.9, §9).
	PTYRows = 40
	PTYCols = 120

	// DrainChunkSize is the read buffer size for draining PTY output.
	DrainChunkSize = 4096
)

// envDenylist is the set of variable names the shell itself manages and
// that must never be captured or replayed across suspend/restore (spec
// §4.9, §9 "Environment denylist"). TERM_* covers a family of names the
// Python source lists individually (TERM_PROGRAM, TERM_PROGRAM_VERSION,
// TERM_SESSION_ID); we match the same family with a prefix check instead.
var envDenylist = map[string]bool{
	"_":             true,
	"SHLVL":         true,
	"PWD":           true,
	"OLDPWD":        true,
	"SHELL":         true,
	"TERM":          true,
	"TMPDIR":        true,
	"LOGNAME":       true,
	"USER":          true,
	"HOME":          true,
	"LANG":          true,
	"SSH_AUTH_SOCK": true,
}

func isDenylistedEnvVar(name string) bool {
	if envDenylist[name] {
		return true
	}
	return len(name) >= 5 && name[:5] == "TERM_"
}
