// Package procutil probes process liveness and manages process groups, the
// same way the teacher's instance.destroy() looks up a PGID before signaling
// (internal/daemon/instance.go) but generalized to the null-signal liveness
// check the crash-recovery sweep, runtime lock and front-end commands use
// (spec §4.8, §4.7), and the process-group kill the worker uses.
package procutil

import (
	"golang.org/x/sys/unix"
)

// Alive reports whether pid refers to a live process, using the POSIX
// null-signal convention: kill(pid, 0) succeeds iff the process exists and
// is signalable by us.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil
}

// KillGroup sends sig to pid's process group, falling back to signaling the
// process directly if the group lookup fails. Mirrors the teacher's destroy()
// fallback in internal/daemon/instance.go.
func KillGroup(pid int, sig unix.Signal) error {
	if pgid, err := unix.Getpgid(pid); err == nil && pgid > 0 {
		return unix.Kill(-pgid, sig)
	}
	return unix.Kill(pid, sig)
}

// Signal sends sig directly to pid.
func Signal(pid int, sig unix.Signal) error {
	return unix.Kill(pid, sig)
}
