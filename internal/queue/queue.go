// Package queue implements the per-session priority + FIFO + override input
// queue (spec §3 QueueFile, §4.5, §8 ordering properties).
//
// There is no cross-process lock protecting read-modify-write of the queue
// file (spec §5): any front-end may enqueue concurrently. The worst case is
// a lost update to the denormalized queue_length hint on the SessionRecord,
// resolved on the worker's next iteration. The QueueFile itself is always
// rewritten in full through atomicfile, so concurrent enqueues each read,
// append, and write back — last writer wins if two enqueues race within the
// same instant, which can drop one entry. This is the same hazard the
// Python source accepts (clrun/queue/queue_engine.py has no locking either).
package queue

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clrun/clrun/internal/atomicfile"
	"github.com/clrun/clrun/internal/paths"
	"github.com/clrun/clrun/internal/session"
)

// Mode distinguishes a normally-scheduled entry from an override.
type Mode string

const (
	ModeNormal   Mode = "normal"
	ModeOverride Mode = "override"
)

// EntryStatus is the lifecycle state of one QueueEntry.
type EntryStatus string

const (
	StatusQueued    EntryStatus = "queued"
	StatusSent      EntryStatus = "sent"
	StatusCancelled EntryStatus = "cancelled"
)

// overridePriority is the sentinel priority used for override entries —
// comfortably above any plausible normal priority (spec §3).
const overridePriority = 1 << 53

// Entry is one request to deliver bytes to the PTY (spec §3 QueueEntry).
type Entry struct {
	QueueID   string      `json:"queue_id"`
	Input     string      `json:"input"`
	Priority  int64       `json:"priority"`
	Mode      Mode        `json:"mode"`
	Status    EntryStatus `json:"status"`
	CreatedAt string      `json:"created_at"`
	SentAt    string      `json:"sent_at,omitempty"`
}

// File is the on-disk queue for one session (spec §3 QueueFile).
type File struct {
	TerminalID string  `json:"terminal_id"`
	Entries    []Entry `json:"entries"`
}

func filePath(projectRoot, terminalID string) string {
	return paths.QueuePath(projectRoot, terminalID)
}

// Init writes an empty queue file for terminalID.
func Init(projectRoot, terminalID string) error {
	return write(projectRoot, &File{TerminalID: terminalID})
}

func write(projectRoot string, f *File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return atomicfile.Write(filePath(projectRoot, f.TerminalID), data)
}

// Read loads the queue file, returning an empty queue if it does not exist
// or fails to parse — matching clrun/queue/queue_engine.py's read_queue,
// which never propagates a parse error to the caller.
func Read(projectRoot, terminalID string) *File {
	data, err := os.ReadFile(filePath(projectRoot, terminalID))
	if err != nil {
		return &File{TerminalID: terminalID}
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return &File{TerminalID: terminalID}
	}
	return &f
}

// EnqueueNormal appends a queued, mode=normal entry.
func EnqueueNormal(projectRoot, terminalID, text string, priority int) (Entry, error) {
	f := Read(projectRoot, terminalID)
	e := Entry{
		QueueID:   uuid.NewString(),
		Input:     text,
		Priority:  int64(priority),
		Mode:      ModeNormal,
		Status:    StatusQueued,
		CreatedAt: session.NowISO(),
	}
	f.Entries = append(f.Entries, e)
	if err := write(projectRoot, f); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// EnqueueOverride cancels every currently-queued entry, then appends a new
// mode=override entry with the sentinel priority. Returns the new entry and
// the number of entries it cancelled (spec §4.5, §8 override postcondition).
func EnqueueOverride(projectRoot, terminalID, text string) (Entry, int, error) {
	f := Read(projectRoot, terminalID)
	cancelled := 0
	for i := range f.Entries {
		if f.Entries[i].Status == StatusQueued {
			f.Entries[i].Status = StatusCancelled
			cancelled++
		}
	}
	e := Entry{
		QueueID:   uuid.NewString(),
		Input:     text,
		Priority:  overridePriority,
		Mode:      ModeOverride,
		Status:    StatusQueued,
		CreatedAt: session.NowISO(),
	}
	f.Entries = append(f.Entries, e)
	if err := write(projectRoot, f); err != nil {
		return Entry{}, 0, err
	}
	return e, cancelled, nil
}

// PeekNext returns the highest-priority queued entry, breaking ties by
// earliest creation timestamp (strict FIFO within a priority). Returns nil
// if no entry is queued.
func PeekNext(projectRoot, terminalID string) *Entry {
	f := Read(projectRoot, terminalID)
	var pending []Entry
	for _, e := range f.Entries {
		if e.Status == StatusQueued {
			pending = append(pending, e)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].Priority != pending[j].Priority {
			return pending[i].Priority > pending[j].Priority
		}
		// RFC3339Nano drops trailing zeros, so the strings are not
		// fixed-width and must be compared as times.
		ti, _ := time.Parse(time.RFC3339Nano, pending[i].CreatedAt)
		tj, _ := time.Parse(time.RFC3339Nano, pending[j].CreatedAt)
		return ti.Before(tj)
	})
	out := pending[0]
	return &out
}

// MarkSent transitions queueID from queued to sent and records the sent
// timestamp.
func MarkSent(projectRoot, terminalID, queueID string) error {
	f := Read(projectRoot, terminalID)
	for i := range f.Entries {
		if f.Entries[i].QueueID == queueID {
			f.Entries[i].Status = StatusSent
			f.Entries[i].SentAt = session.NowISO()
			break
		}
	}
	return write(projectRoot, f)
}

// PendingCount returns the number of entries still in status=queued.
func PendingCount(projectRoot, terminalID string) int {
	f := Read(projectRoot, terminalID)
	n := 0
	for _, e := range f.Entries {
		if e.Status == StatusQueued {
			n++
		}
	}
	return n
}
