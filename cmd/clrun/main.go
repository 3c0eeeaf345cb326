// Command clrun is the single binary this module ships: most invocations
// run one of the seven short-lived front-end commands and exit, but a
// hidden "__worker" form re-execs the very same binary to become a
// detached per-session PTY worker (spec §4.9's self-reexec pattern, the Go
// analogue of the Python source's "sys.executable -m clrun.worker"
// self-invocation). Smart routing — bare commands, terminal-id shorthand —
// mirrors clrun/cli.py's main(), generalized from Click's command group to
// a plain flag-and-switch dispatcher in the teacher's cmd/grove/main.go
// style, since this module has no cobra/click-equivalent dependency to
// reach for.
package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/clrun/clrun/internal/frontend"
	"github.com/clrun/clrun/internal/worker"
)

const version = "1.0.0"

var uuidRE = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

var knownCommands = map[string]bool{
	"run": true, "input": true, "key": true, "tail": true, "head": true,
	"status": true, "kill": true, "help": true,
	"--help": true, "--version": true, "-h": true,
}

func main() {
	args := os.Args[1:]

	if len(args) == 0 {
		printUsage()
		return
	}

	if args[0] == "__worker" {
		runWorker(args[1:])
		return
	}

	first := args[0]

	if strings.HasPrefix(first, "-") || knownCommands[strings.ToLower(first)] {
		dispatchKnown(args)
		return
	}

	if uuidRE.MatchString(strings.ToLower(first)) {
		terminalID := first
		rest := args[1:]
		if len(rest) == 0 {
			frontend.Tail(terminalID, 50)
			return
		}
		text := strings.Join(rest, " ")
		frontend.Input(terminalID, text, 0, false)
		return
	}

	// Bare command shorthand: `clrun echo hello world` runs a new session.
	frontend.Run(strings.Join(args, " "))
}

func dispatchKnown(args []string) {
	switch strings.ToLower(args[0]) {
	case "--version":
		fmt.Printf("clrun version %s\n", version)
	case "--help", "-h", "help":
		printUsage()
	case "run":
		runCmd(args[1:])
	case "input":
		inputCmd(args[1:])
	case "key":
		keyCmd(args[1:])
	case "tail":
		tailCmd(args[1:])
	case "head":
		headCmd(args[1:])
	case "status":
		statusCmd(args[1:])
	case "kill":
		killCmd(args[1:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func runCmd(args []string) {
	if len(args) == 0 {
		frontend.Run("")
		return
	}
	frontend.Run(strings.Join(args, " "))
}

func inputCmd(args []string) {
	fs := flag.NewFlagSet("input", flag.ExitOnError)
	priority := fs.Int("priority", 0, "priority (higher = first)")
	fs.IntVar(priority, "p", 0, "priority (higher = first)")
	override := fs.Bool("override", false, "cancel all pending inputs and send immediately")
	fs.Parse(args)

	// Flags may follow the positional arguments, as the usage line shows.
	var rest []string
	for remaining := fs.Args(); len(remaining) > 0; remaining = fs.Args() {
		rest = append(rest, remaining[0])
		fs.Parse(remaining[1:])
	}
	if len(rest) < 2 {
		fmt.Fprintln(os.Stderr, "usage: clrun input <terminal_id> <text> [--priority N] [--override]")
		os.Exit(1)
	}
	frontend.Input(rest[0], strings.Join(rest[1:], " "), *priority, *override)
}

func keyCmd(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: clrun key <terminal_id> <key> [<key>...]")
		os.Exit(1)
	}
	frontend.Key(args[0], args[1:])
}

func tailCmd(args []string) {
	fs := flag.NewFlagSet("tail", flag.ExitOnError)
	lines := fs.Int("lines", 50, "number of lines")
	fs.IntVar(lines, "n", 50, "number of lines")
	follow := fs.Bool("follow", false, "stream new output as it arrives")
	fs.Parse(args)

	// Flags may follow the terminal id, as the usage line shows.
	var rest []string
	for remaining := fs.Args(); len(remaining) > 0; remaining = fs.Args() {
		rest = append(rest, remaining[0])
		fs.Parse(remaining[1:])
	}
	if len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "usage: clrun tail <terminal_id> [--lines N] [--follow]")
		os.Exit(1)
	}
	if *follow {
		frontend.TailFollow(rest[0])
		return
	}
	frontend.Tail(rest[0], *lines)
}

func headCmd(args []string) {
	fs := flag.NewFlagSet("head", flag.ExitOnError)
	lines := fs.Int("lines", 50, "number of lines")
	fs.IntVar(lines, "n", 50, "number of lines")
	fs.Parse(args)

	// Flags may follow the terminal id, as the usage line shows.
	var rest []string
	for remaining := fs.Args(); len(remaining) > 0; remaining = fs.Args() {
		rest = append(rest, remaining[0])
		fs.Parse(remaining[1:])
	}
	if len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "usage: clrun head <terminal_id> [--lines N]")
		os.Exit(1)
	}
	frontend.Head(rest[0], *lines)
}

func statusCmd(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	watch := fs.Bool("watch", false, "live-refresh the session table")
	fs.Parse(args)

	if *watch {
		frontend.StatusWatch()
		return
	}
	frontend.Status()
}

func killCmd(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: clrun kill <terminal_id>")
		os.Exit(1)
	}
	frontend.Kill(args[0])
}

func runWorker(args []string) {
	if len(args) < 4 {
		os.Exit(1)
	}
	restore := false
	var positional []string
	for _, a := range args {
		if a == "--restore" {
			restore = true
			continue
		}
		positional = append(positional, a)
	}
	if len(positional) < 4 {
		os.Exit(1)
	}
	worker.Run(worker.Args{
		TerminalID:  positional[0],
		Command:     positional[1],
		CWD:         positional[2],
		ProjectRoot: positional[3],
		Restore:     restore,
	})
}

func printUsage() {
	fmt.Println("clrun — persistent, observable interactive terminal sessions for coding agents")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  clrun <command>                    start a new session")
	fmt.Println("  clrun <terminal_id>                shorthand for: clrun tail <terminal_id>")
	fmt.Println("  clrun <terminal_id> <text>          shorthand for: clrun input <terminal_id> <text>")
	fmt.Println("  clrun input <terminal_id> <text>   queue input to a session")
	fmt.Println("  clrun key <terminal_id> <key>...   send named keystrokes")
	fmt.Println("  clrun tail <terminal_id>            show recent output")
	fmt.Println("  clrun head <terminal_id>            show earliest output")
	fmt.Println("  clrun status                        list all sessions")
	fmt.Println("  clrun kill <terminal_id>            terminate a session")
}
