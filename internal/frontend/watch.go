package frontend

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	"golang.org/x/term"

	"github.com/clrun/clrun/internal/paths"
	"github.com/clrun/clrun/internal/queue"
	"github.com/clrun/clrun/internal/recovery"
	"github.com/clrun/clrun/internal/session"
)

const watchTick = 1 * time.Second

// StatusWatch is the supplemented `clrun status --watch` command: a live,
// redrawn table of every session, refreshed on a fixed tick until the user
// interrupts it. Adapted from the teacher's cmd/grove/cmd_watch.go, which
// drove an ASCII-art dashboard off golang.org/x/term width detection and a
// periodic-redraw ticker over a socket-fed instance list; here the "feed"
// is a plain directory read instead of an attach stream, and the dashboard
// itself is a plain table instead of branded ASCII art.
func StatusWatch() {
	projectRoot, err := paths.ResolveProjectRoot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	ticker := time.NewTicker(watchTick)
	defer ticker.Stop()

	render(projectRoot)
	for {
		select {
		case <-stop:
			fmt.Println()
			return
		case <-ticker.C:
			render(projectRoot)
		}
	}
}

func render(projectRoot string) {
	recovery.Sweep(projectRoot)
	sessions, _ := session.List(projectRoot)
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].CreatedAt < sessions[j].CreatedAt })

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}

	fmt.Print("\x1b[H\x1b[2J")
	fmt.Printf("clrun sessions — %s (ctrl-c to stop)\n", projectRoot)
	fmt.Println(repeatRune('-', width))
	fmt.Printf("%-38s %-10s %6s %-8s %s\n", "TERMINAL ID", "STATUS", "QUEUE", "PID", "COMMAND")
	for _, s := range sessions {
		cmd := s.Command
		maxCmd := width - 38 - 10 - 6 - 8 - 4
		if maxCmd > 0 && len(cmd) > maxCmd {
			cmd = cmd[:maxCmd-1] + "…"
		}
		fmt.Printf("%-38s %-10s %6d %-8d %s\n",
			s.TerminalID, string(s.Status), queue.PendingCount(projectRoot, s.TerminalID), s.PID, cmd)
	}
}

func repeatRune(r rune, n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]rune, n)
	for i := range out {
		out[i] = r
	}
	return string(out)
}
