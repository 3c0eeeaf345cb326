// Package runtimelock implements the advisory, single-writer-per-project
// runtime lock (spec §3 RuntimeLock, §4.7). It never prevents concurrent
// workers — its only job is to mark which front-end process considers
// itself responsible for this project, the way the teacher's daemon claims
// a Unix socket path (internal/daemon/daemon.go Run()) except here the
// "claim" is three small files instead of a listening socket, because spec
// §2 rules out a central daemon entirely.
package runtimelock

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/clrun/clrun/internal/atomicfile"
	"github.com/clrun/clrun/internal/paths"
	"github.com/clrun/clrun/internal/procutil"
	"github.com/clrun/clrun/internal/session"
)

// Version is reported in runtime.json, the same field the Python source's
// RuntimeState.version carries.
const Version = "1.0.0"

// Descriptor is the JSON content of runtime.json (spec §3 RuntimeLock).
type Descriptor struct {
	PID         int    `json:"pid"`
	StartedAt   string `json:"started_at"`
	Version     string `json:"version"`
	ProjectRoot string `json:"project_root"`
}

// Result reports what Acquire did.
type Result struct {
	Acquired    bool
	Attached    bool
	ExistingPID int
	Message     string
}

// Acquire takes the runtime lock for projectRoot. If an existing lock
// references a live process, it "attaches" (spec §4.7: the front-end treats
// the existing runtime as valid and proceeds). If the referenced process is
// gone, the stale lock is cleaned up and a fresh one is taken under the
// caller's pid.
func Acquire(projectRoot string) (Result, error) {
	if err := paths.EnsureDirs(projectRoot); err != nil {
		return Result{}, err
	}
	l := paths.Get(projectRoot)

	if _, err := os.Stat(l.RuntimeLock); err == nil {
		if pid, ok := readPID(l.RuntimePID); ok {
			if procutil.Alive(pid) {
				return Result{Attached: true, ExistingPID: pid,
					Message: fmt.Sprintf("Attached to existing runtime (PID: %d)", pid)}, nil
			}
		}
		cleanup(l)
	}

	pid := os.Getpid()
	now := session.NowISO()

	if err := atomicfile.Write(l.RuntimeLock, []byte(fmt.Sprintf("%d\n%d", pid, time.Now().Unix()))); err != nil {
		return Result{}, err
	}
	if err := atomicfile.Write(l.RuntimePID, []byte(strconv.Itoa(pid))); err != nil {
		return Result{}, err
	}
	desc := Descriptor{PID: pid, StartedAt: now, Version: Version, ProjectRoot: projectRoot}
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return Result{}, err
	}
	if err := atomicfile.Write(l.RuntimeJSON, data); err != nil {
		return Result{}, err
	}
	return Result{Acquired: true, Message: fmt.Sprintf("Runtime lock acquired (PID: %d)", pid)}, nil
}

// Release removes the lock files unconditionally.
func Release(projectRoot string) {
	cleanup(paths.Get(projectRoot))
}

// ReadDescriptor loads runtime.json, or nil if absent/unparseable.
func ReadDescriptor(projectRoot string) *Descriptor {
	data, err := os.ReadFile(paths.Get(projectRoot).RuntimeJSON)
	if err != nil {
		return nil
	}
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil
	}
	return &d
}

// IsActive reports whether runtime.pid names a live process.
func IsActive(projectRoot string) bool {
	pid, ok := readPID(paths.Get(projectRoot).RuntimePID)
	if !ok {
		return false
	}
	return procutil.Alive(pid)
}

// CleanupStale removes the lock files if runtime.pid names a dead process
// (or is missing/unparseable), returning whether anything was removed.
func CleanupStale(projectRoot string) bool {
	l := paths.Get(projectRoot)
	pid, ok := readPID(l.RuntimePID)
	if !ok {
		cleanup(l)
		return true
	}
	if !procutil.Alive(pid) {
		cleanup(l)
		return true
	}
	return false
}

func readPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return pid, true
}

func cleanup(l paths.Layout) {
	for _, fp := range []string{l.RuntimeLock, l.RuntimePID, l.RuntimeJSON} {
		os.Remove(fp)
	}
}
