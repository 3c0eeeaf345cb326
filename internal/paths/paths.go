// Package paths resolves the project root and derives the fixed .clrun
// state directory layout from it. The non-test code of every other package
// addresses its files through a Layout returned from here rather than
// hard-coding ".clrun".
package paths

import (
	"os"
	"path/filepath"
)

// ClrunDir is the name of the per-project state directory.
const ClrunDir = ".clrun"

// indicators is the fixed set of markers that identify a project root,
// checked in order at each ancestor directory.
var indicators = []string{
	"package.json",
	".git",
	"Cargo.toml",
	"go.mod",
	"pyproject.toml",
	"Makefile",
}

// ResolveProjectRoot walks upward from the current working directory looking
// for an indicator file/directory, or an existing .clrun directory, and
// returns the first ancestor where one is found. It falls back to the
// current directory if it reaches the filesystem root without a match.
func ResolveProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return resolveFrom(cwd), nil
}

func resolveFrom(start string) string {
	d := start
	for {
		for _, indicator := range indicators {
			if _, err := os.Stat(filepath.Join(d, indicator)); err == nil {
				return d
			}
		}
		if _, err := os.Stat(filepath.Join(d, ClrunDir)); err == nil {
			return d
		}
		parent := filepath.Dir(d)
		if parent == d {
			// Reached the filesystem root without a match.
			return start
		}
		d = parent
	}
}

// Layout is the bit-exact set of paths under <project-root>/.clrun that
// every consumer depends on.
type Layout struct {
	Root string // <project-root>/.clrun

	RuntimeLock string
	RuntimePID  string
	RuntimeJSON string

	SessionsDir string
	QueuesDir   string
	BuffersDir  string
	LedgerDir   string
	EventsLog   string
	SkillsDir   string
}

// Get builds the Layout for projectRoot.
func Get(projectRoot string) Layout {
	root := filepath.Join(projectRoot, ClrunDir)
	ledgerDir := filepath.Join(root, "ledger")
	return Layout{
		Root:        root,
		RuntimeLock: filepath.Join(root, "runtime.lock"),
		RuntimePID:  filepath.Join(root, "runtime.pid"),
		RuntimeJSON: filepath.Join(root, "runtime.json"),
		SessionsDir: filepath.Join(root, "sessions"),
		QueuesDir:   filepath.Join(root, "queues"),
		BuffersDir:  filepath.Join(root, "buffers"),
		LedgerDir:   ledgerDir,
		EventsLog:   filepath.Join(ledgerDir, "events.log"),
		SkillsDir:   filepath.Join(root, "skills"),
	}
}

// EnsureDirs creates every directory in the layout, idempotently.
func EnsureDirs(projectRoot string) error {
	l := Get(projectRoot)
	for _, d := range []string{l.Root, l.SessionsDir, l.QueuesDir, l.BuffersDir, l.LedgerDir, l.SkillsDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// SessionPath returns the record path for terminalID.
func SessionPath(projectRoot, terminalID string) string {
	return filepath.Join(Get(projectRoot).SessionsDir, terminalID+".json")
}

// QueuePath returns the queue file path for terminalID.
func QueuePath(projectRoot, terminalID string) string {
	return filepath.Join(Get(projectRoot).QueuesDir, terminalID+".json")
}

// BufferPath returns the output buffer path for terminalID.
func BufferPath(projectRoot, terminalID string) string {
	return filepath.Join(Get(projectRoot).BuffersDir, terminalID+".log")
}
