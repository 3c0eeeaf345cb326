//go:build unix

package frontend

import "syscall"

// detachedSysProcAttr starts a spawned worker in its own session, detached
// from the launching front-end's controlling terminal and process group —
// the Go equivalent of the Python source's subprocess.Popen(start_new_session=True).
func detachedSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
