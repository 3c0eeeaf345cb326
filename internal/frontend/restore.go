package frontend

import (
	"os"
	"os/exec"
	"time"

	"github.com/clrun/clrun/internal/ledger"
	"github.com/clrun/clrun/internal/session"
)

const (
	restoreMaxWait      = 3 * time.Second
	restorePollInterval = 100 * time.Millisecond
)

// RestoreSession spawns a fresh worker for a suspended session, re-exec'ing
// the current binary with the hidden __worker verb (spec §4.9's self-reexec
// pattern, adapted from the Python source's "sys.executable -m clrun.worker"
// self-invocation — here the equivalent is re-invoking our own binary).
// Callers are expected to have already enqueued the input that triggered
// the restore, so it is waiting in the queue by the time the new worker's
// first loop iteration drains it.
//
// Blocks up to restoreMaxWait for the record to show status=running under a
// new worker pid; returns without error either way; callers re-read the
// record afterward to learn what actually happened.
func RestoreSession(exePath, projectRoot, terminalID string) error {
	before, err := session.Read(projectRoot, terminalID)
	if err != nil {
		return err
	}
	if before == nil {
		return nil
	}

	restoredCWD := before.CWD
	if before.SavedState != nil {
		restoredCWD = before.SavedState.CWD
	}
	previousWorkerPID := before.WorkerPID

	cmd := exec.Command(exePath, "__worker", terminalID, before.Command, restoredCWD, projectRoot, "--restore")
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = detachedSysProcAttr()
	if err := cmd.Start(); err != nil {
		return err
	}
	cmd.Process.Release()

	ledger.Log(projectRoot, ledger.EventSessionRestored, terminalID, map[string]interface{}{
		"restored_cwd": restoredCWD,
	})

	deadline := time.Now().Add(restoreMaxWait)
	for time.Now().Before(deadline) {
		time.Sleep(restorePollInterval)
		updated, err := session.Read(projectRoot, terminalID)
		if err != nil {
			return err
		}
		if updated != nil && updated.Status == session.StatusRunning && updated.WorkerPID != previousWorkerPID {
			return nil
		}
	}
	return nil
}

func currentExecutable() string {
	exe, err := os.Executable()
	if err != nil {
		return os.Args[0]
	}
	return exe
}
