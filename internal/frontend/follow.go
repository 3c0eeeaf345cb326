package frontend

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/clrun/clrun/internal/buffer"
	"github.com/clrun/clrun/internal/output"
	"github.com/clrun/clrun/internal/paths"
	"github.com/clrun/clrun/internal/session"
)

// TailFollow is the supplemented `clrun tail <id> --follow` command: print
// new output as it arrives, watching the buffer file for writes instead of
// the fixed-delay poll-and-diff the base tail/input commands use. Adapted
// from the pack's fsnotify-based log-tailing examples (kehao95-quine,
// ehrlich-b-wingthing, other_examples/kylesnowschwartz-tail-claude), since
// the teacher has no equivalent — grove's dashboard polls a socket, not a
// file. Exits when the session transitions out of running.
func TailFollow(terminalID string) {
	projectRoot, err := paths.ResolveProjectRoot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	sess, err := session.Read(projectRoot, terminalID)
	if err != nil || sess == nil {
		fmt.Fprintf(os.Stderr, "session not found: %s\n", terminalID)
		os.Exit(1)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer watcher.Close()

	bufferPath := paths.BufferPath(projectRoot, terminalID)
	if err := watcher.Add(bufferPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	offset := buffer.Size(projectRoot, terminalID)
	drain := func() {
		lines := buffer.ReadSince(projectRoot, terminalID, offset)
		for _, l := range lines {
			fmt.Println(output.StripANSI(l))
		}
		offset = buffer.Size(projectRoot, terminalID)
	}
	drain()

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				drain()
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintln(os.Stderr, werr)
		}

		current, err := session.Read(projectRoot, terminalID)
		if err != nil || current == nil || current.Status != session.StatusRunning {
			drain()
			return
		}
	}
}
