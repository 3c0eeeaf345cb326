// Package worker implements the detached background worker that owns one
// session's PTY (spec §4.9 worker event loop, §4.10 suspend/restore).
//
// The worker's main loop is cooperative and never blocks for long. Three
// supporting goroutines run beside it: one reaps the PTY's exec.Cmd and
// reports the result on a channel the main loop polls non-blockingly; one
// turns SIGUSR1 into a wake flag consumed on the next iteration; and one
// handles SIGTERM/SIGINT by running shutdown directly, which kills the PTY
// process group, marks the record killed and exits the process. This
// mirrors the teacher's internal/daemon/instance.go ptyReader/startAgent
// split (a reader goroutine feeding state the request-handling code polls),
// generalized from the teacher's socket-driven daemon to clrun's
// file-and-signal-driven one, since spec §2 rules out a central daemon.
package worker

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	"github.com/clrun/clrun/internal/buffer"
	"github.com/clrun/clrun/internal/clrunerrors"
	"github.com/clrun/clrun/internal/keys"
	"github.com/clrun/clrun/internal/ledger"
	"github.com/clrun/clrun/internal/paths"
	"github.com/clrun/clrun/internal/procutil"
	"github.com/clrun/clrun/internal/queue"
	"github.com/clrun/clrun/internal/session"
)

// Args are the worker's command-line parameters (spec §4.9 Invocation
// arguments): terminal id, original command, working directory, project
// root, and an optional restore flag.
type Args struct {
	TerminalID  string
	Command     string
	CWD         string
	ProjectRoot string
	Restore     bool
}

// Run boots a worker for args and blocks until the session ends (exit,
// kill, or suspend). Any failure during boot exits the process non-zero;
// there is no caller left to report it to by the time this runs detached.
func Run(args Args) {
	if err := paths.EnsureDirs(args.ProjectRoot); err != nil {
		os.Exit(1)
	}

	w := &worker{args: args}
	if !w.boot() {
		os.Exit(1)
	}
	w.installSignalHandlers()
	w.loop()
}

type worker struct {
	args Args

	ptmx   *os.File
	ptyPID int
	waiter *exitWaiter

	lastActivity time.Time
	suspending   bool
	wakeFlag     atomic.Bool

	shell string
}

// exitWaiter reaps an *exec.Cmd in a background goroutine and reports its
// result on a channel, so the single-threaded main loop can poll liveness
// without blocking on cmd.Wait().
type exitWaiter struct {
	done chan error
}

func startExitWaiter(wait func() error) *exitWaiter {
	ew := &exitWaiter{done: make(chan error, 1)}
	go func() {
		ew.done <- wait()
	}()
	return ew
}

// poll returns (err, true) once, the first time it is called after the
// process has exited; otherwise (nil, false).
func (ew *exitWaiter) poll() (error, bool) {
	select {
	case err := <-ew.done:
		return err, true
	default:
		return nil, false
	}
}

func (w *worker) boot() bool {
	a := w.args

	var restored *session.SavedState
	restoreCWD := a.CWD
	var existing *session.Record

	if a.Restore {
		if s, err := session.Read(a.ProjectRoot, a.TerminalID); err == nil && s != nil {
			existing = s
			if s.SavedState != nil {
				restored = s.SavedState
				restoreCWD = restored.CWD
			}
		}
	}

	w.shell = session.DetectShell()

	cmd := exec.Command(w.shell)
	cmd.Dir = restoreCWD
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: PTYRows, Cols: PTYCols})
	if err != nil {
		return false
	}
	w.ptmx = ptmx
	w.ptyPID = cmd.Process.Pid
	w.waiter = startExitWaiter(cmd.Wait)

	if !a.Restore {
		buffer.Init(a.ProjectRoot, a.TerminalID)
	}

	createdAt := session.NowISO()
	if existing != nil {
		createdAt = existing.CreatedAt
	}

	rec := &session.Record{
		TerminalID:     a.TerminalID,
		CreatedAt:      createdAt,
		CWD:            restoreCWD,
		Command:        a.Command,
		Shell:          w.shell,
		Status:         session.StatusRunning,
		PID:            w.ptyPID,
		WorkerPID:      os.Getpid(),
		QueueLength:    0,
		LastActivityAt: session.NowISO(),
	}
	session.Write(a.ProjectRoot, rec)

	if !a.Restore {
		ledger.Log(a.ProjectRoot, ledger.EventSessionCreated, a.TerminalID, map[string]interface{}{
			"command": a.Command,
			"cwd":     a.CWD,
			"pid":     w.ptyPID,
		})
	}

	w.resetIdle()
	time.Sleep(InitialInjectionDelay)

	if restored != nil {
		w.injectRestore(restored)
	} else {
		w.sendLine(a.Command)
	}
	return true
}

func (w *worker) resetIdle() { w.lastActivity = time.Now() }

// sendLine writes text followed by the shell's line terminator.
func (w *worker) sendLine(text string) {
	w.ptmx.Write([]byte(text + "\n"))
}

// sendRaw writes bytes with no trailing newline.
func (w *worker) sendRaw(b []byte) {
	w.ptmx.Write(b)
}

// injectRestore replays the captured environment and appends the visible
// restore marker, in that order (spec §4.9, §9 open question: "keep the
// marker after the exports for testability").
func (w *worker) injectRestore(saved *session.SavedState) {
	var exports []string
	for k, v := range saved.Env {
		if isDenylistedEnvVar(k) {
			continue
		}
		escaped := strings.ReplaceAll(v, "'", `'\''`)
		exports = append(exports, fmt.Sprintf("export %s='%s'", k, escaped))
	}
	if len(exports) > 0 {
		w.sendLine(strings.Join(exports, " && "))
	}
	buffer.Append(w.args.ProjectRoot, w.args.TerminalID, []byte("\n--- session restored ---\n"))

	ledger.Log(w.args.ProjectRoot, ledger.EventSessionRestored, w.args.TerminalID, map[string]interface{}{
		"restored_cwd":  saved.CWD,
		"restored_vars": len(exports),
	})
}

func (w *worker) installSignalHandlers() {
	wake := make(chan os.Signal, 1)
	signal.Notify(wake, syscall.SIGUSR1)
	go func() {
		for range wake {
			w.wakeFlag.Store(true)
		}
	}()

	term := make(chan os.Signal, 1)
	signal.Notify(term, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-term
		w.shutdown(sig)
	}()
}

func (w *worker) shutdown(sig os.Signal) {
	procutil.KillGroup(w.ptyPID, unix.SIGKILL)
	w.ptmx.Close()
	session.Update(w.args.ProjectRoot, w.args.TerminalID, func(rec *session.Record) {
		rec.Status = session.StatusKilled
		rec.LastActivityAt = session.NowISO()
	})
	ledger.Log(w.args.ProjectRoot, ledger.EventSessionKilled, w.args.TerminalID, map[string]interface{}{
		"signal": sig.String(),
	})
	os.Exit(0)
}

func (w *worker) loop() {
	lastHeartbeat := time.Now()

	for {
		w.drainOutput()

		if err, exited := w.waiter.poll(); exited {
			w.drainOutput()
			w.onProcessExited(err)
			return
		}

		if w.wakeFlag.Swap(false) {
			w.resetIdle()
		}
		w.processQueue()

		if time.Since(lastHeartbeat) > HeartbeatInterval {
			session.Update(w.args.ProjectRoot, w.args.TerminalID, func(rec *session.Record) {
				rec.LastActivityAt = session.NowISO()
			})
			lastHeartbeat = time.Now()
		}

		if time.Since(w.lastActivity) >= IdleTimeout && !w.suspending {
			w.suspending = true
			w.suspendAndExit()
			return
		}

		time.Sleep(LoopSleep)
	}
}

// drainOutput reads all currently-readable PTY bytes using a zero-timeout
// readiness check (SetReadDeadline(now) makes a read return immediately
// with whatever is already buffered, or a timeout error if nothing is,
// approximating the Python source's select()-gated read_nonblocking loop)
// and appends them verbatim to the buffer. Every non-empty chunk resets the
// idle timer.
func (w *worker) drainOutput() {
	buf := make([]byte, DrainChunkSize)
	for {
		w.ptmx.SetReadDeadline(time.Now())
		n, err := w.ptmx.Read(buf)
		if n > 0 {
			buffer.Append(w.args.ProjectRoot, w.args.TerminalID, buf[:n])
			w.resetIdle()
		}
		if err != nil || n == 0 {
			return
		}
	}
}

func (w *worker) processQueue() {
	for {
		entry := queue.PeekNext(w.args.ProjectRoot, w.args.TerminalID)
		if entry == nil {
			break
		}
		var logged string
		if strings.HasPrefix(entry.Input, keys.RawPrefix) {
			raw := strings.TrimPrefix(entry.Input, keys.RawPrefix)
			w.sendRaw([]byte(raw))
			logged = "[raw keys]"
		} else {
			w.sendLine(entry.Input)
			logged = entry.Input
		}
		queue.MarkSent(w.args.ProjectRoot, w.args.TerminalID, entry.QueueID)
		w.resetIdle()
		ledger.Log(w.args.ProjectRoot, ledger.EventInputSent, w.args.TerminalID, map[string]interface{}{
			"queue_id": entry.QueueID,
			"input":    logged,
		})
	}
	count := queue.PendingCount(w.args.ProjectRoot, w.args.TerminalID)
	session.Update(w.args.ProjectRoot, w.args.TerminalID, func(rec *session.Record) {
		rec.QueueLength = count
	})
}

func (w *worker) onProcessExited(waitErr error) {
	exitCode := exitCodeFrom(waitErr)
	session.Update(w.args.ProjectRoot, w.args.TerminalID, func(rec *session.Record) {
		rec.Status = session.StatusExited
		rec.LastExitCode = &exitCode
		rec.LastActivityAt = session.NowISO()
		rec.QueueLength = 0
	})
	ledger.Log(w.args.ProjectRoot, ledger.EventSessionExited, w.args.TerminalID, map[string]interface{}{
		"exit_code": exitCode,
	})
}

// suspendAndExit implements the idle-timeout suspend procedure (spec §4.10):
// capture the shell's cwd and environment by redirecting them to temp files
// inside the PTY, wait for the shell to flush, parse and delete the capture
// files, persist the SavedState, append the visible suspend marker, and
// forcefully tear down the PTY process group before the worker process
// itself exits.
func (w *worker) suspendAndExit() {
	cwdPath := session.StateCWDPath(w.args.ProjectRoot, w.args.TerminalID)
	envPath := session.StateEnvPath(w.args.ProjectRoot, w.args.TerminalID)

	w.sendLine(fmt.Sprintf("pwd > %s", cwdPath))
	w.sendLine(fmt.Sprintf("env -0 > %s", envPath))
	time.Sleep(SuspendCaptureWait)
	w.drainOutput()

	cwd, env, ok := readCapture(cwdPath, envPath)
	os.Remove(cwdPath)
	os.Remove(envPath)

	if !ok {
		ledger.Log(w.args.ProjectRoot, ledger.EventError, w.args.TerminalID, map[string]interface{}{
			"error": (&clrunerrors.CaptureFailureError{TerminalID: w.args.TerminalID}).Error(),
		})
		if cwd == "" {
			cwd = w.args.CWD
		}
	}

	saved := &session.SavedState{
		CWD:        cwd,
		Env:        env,
		CapturedAt: session.NowISO(),
	}

	session.Update(w.args.ProjectRoot, w.args.TerminalID, func(rec *session.Record) {
		rec.Status = session.StatusSuspended
		rec.SavedState = saved
		rec.LastActivityAt = session.NowISO()
		rec.QueueLength = 0
	})

	buffer.Append(w.args.ProjectRoot, w.args.TerminalID, []byte("\n--- session suspended (idle timeout) ---\n"))

	ledger.Log(w.args.ProjectRoot, ledger.EventSessionSuspended, w.args.TerminalID, map[string]interface{}{
		"captured_cwd": cwd,
		"captured_vars": len(env),
		"reason":       "idle_timeout",
	})

	procutil.KillGroup(w.ptyPID, unix.SIGKILL)
	w.ptmx.Close()
	os.Exit(0)
}

// readCapture parses the cwd/env files the shell wrote via redirection. env
// entries are NUL-separated (env -0), each "NAME=VALUE" split on the first
// "=". ok is false if either file is missing or the cwd file is empty.
func readCapture(cwdPath, envPath string) (cwd string, env map[string]string, ok bool) {
	env = make(map[string]string)

	cwdData, err := os.ReadFile(cwdPath)
	if err != nil {
		return "", env, false
	}
	cwd = strings.TrimSpace(string(cwdData))
	if cwd == "" {
		return "", env, false
	}

	envData, err := os.ReadFile(envPath)
	if err != nil {
		return cwd, env, false
	}
	for _, kv := range strings.Split(string(envData), "\x00") {
		if kv == "" {
			continue
		}
		idx := strings.IndexByte(kv, '=')
		if idx < 0 {
			continue
		}
		name, val := kv[:idx], kv[idx+1:]
		if isDenylistedEnvVar(name) {
			continue
		}
		env[name] = val
	}
	return cwd, env, true
}

func exitCodeFrom(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if status.Exited() {
				return status.ExitStatus()
			}
			if status.Signaled() {
				return int(status.Signal())
			}
		}
		return exitErr.ExitCode()
	}
	return 0
}
