// Package recovery implements the crash-recovery sweep (spec §4.8): for
// every running SessionRecord whose PTY and worker processes are both gone,
// transition it to detached and log the reason. Running twice with no
// intervening change is a no-op the second time (spec §8 idempotence),
// since a record already detached is left alone.
package recovery

import (
	"github.com/clrun/clrun/internal/ledger"
	"github.com/clrun/clrun/internal/procutil"
	"github.com/clrun/clrun/internal/session"
)

// Result summarizes one sweep.
type Result struct {
	Recovered int
	Detached  []*session.Record
	Active    []*session.Record
}

// Sweep scans every session record under projectRoot and reconciles
// running-but-dead sessions to detached.
func Sweep(projectRoot string) (Result, error) {
	sessions, err := session.List(projectRoot)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, s := range sessions {
		switch s.Status {
		case session.StatusRunning:
			workerAlive := procutil.Alive(s.WorkerPID)
			ptyAlive := procutil.Alive(s.PID)
			if !workerAlive && !ptyAlive {
				updated, err := session.Update(projectRoot, s.TerminalID, func(rec *session.Record) {
					rec.Status = session.StatusDetached
					rec.LastActivityAt = session.NowISO()
				})
				if err != nil {
					return Result{}, err
				}
				if updated != nil {
					res.Detached = append(res.Detached, updated)
					res.Recovered++
					ledger.Log(projectRoot, ledger.EventSessionDetached, s.TerminalID, map[string]interface{}{
						"reason":             "crash_recovery",
						"original_pid":       s.PID,
						"original_worker_pid": s.WorkerPID,
					})
				}
			} else {
				res.Active = append(res.Active, s)
			}
		case session.StatusDetached:
			res.Detached = append(res.Detached, s)
		}
	}
	return res, nil
}
