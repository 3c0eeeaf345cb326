// Package buffer implements the append-only PTY output buffer (spec §3
// OutputBuffer, §4.3). It is raw UTF-8 bytes with no ANSI stripping — that
// happens, if at all, in internal/output when a command formats a response.
//
// Tail/head/line-count preserve a specific, slightly surprising rule from
// the Python source (clrun/buffer/buffer_manager.py) and spec §9's open
// question: splitting on "\n" produces one trailing empty token whenever the
// file ends in a newline; that single empty token is dropped before both
// slicing (tail/head) and counting (total_lines), so a buffer ending without
// a final newline has its last partial line participate in both.
package buffer

import (
	"os"
	"strings"

	"github.com/clrun/clrun/internal/paths"
)

func path(projectRoot, terminalID string) string {
	return paths.BufferPath(projectRoot, terminalID)
}

// Init truncates (or creates) the buffer file for terminalID.
func Init(projectRoot, terminalID string) error {
	return os.WriteFile(path(projectRoot, terminalID), nil, 0o644)
}

// Append writes data verbatim to the buffer. The worker is the only caller
// that should ever append.
func Append(projectRoot, terminalID string, data []byte) error {
	f, err := os.OpenFile(path(projectRoot, terminalID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(data)
	return err
}

func readAll(projectRoot, terminalID string) (string, bool) {
	data, err := os.ReadFile(path(projectRoot, terminalID))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// splitLines applies the trailing-empty-token rule described above.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Tail returns the last n newline-terminated lines (or the trailing
// fragment, if the file doesn't end in a newline, counted as a line).
func Tail(projectRoot, terminalID string, n int) []string {
	content, ok := readAll(projectRoot, terminalID)
	if !ok {
		return nil
	}
	lines := splitLines(content)
	if n >= len(lines) {
		return lines
	}
	if n <= 0 {
		return nil
	}
	return lines[len(lines)-n:]
}

// Head returns the first n lines, symmetric with Tail.
func Head(projectRoot, terminalID string, n int) []string {
	content, ok := readAll(projectRoot, terminalID)
	if !ok {
		return nil
	}
	lines := splitLines(content)
	if n >= len(lines) {
		return lines
	}
	if n <= 0 {
		return nil
	}
	return lines[:n]
}

// TotalLines returns the newline-delimited line count, applying the same
// trailing-empty-token rule as Tail/Head.
func TotalLines(projectRoot, terminalID string) int {
	content, ok := readAll(projectRoot, terminalID)
	if !ok || content == "" {
		return 0
	}
	return len(splitLines(content))
}

// Size returns the buffer's current byte size, or 0 if it doesn't exist.
func Size(projectRoot, terminalID string) int64 {
	info, err := os.Stat(path(projectRoot, terminalID))
	if err != nil {
		return 0
	}
	return info.Size()
}

// ReadSince returns the lines appended in the half-open byte range
// [offset, size), UTF-8 decoded with lossy replacement of invalid sequences.
// Returns nil if offset >= size.
func ReadSince(projectRoot, terminalID string, offset int64) []string {
	f, err := os.Open(path(projectRoot, terminalID))
	if err != nil {
		return nil
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil
	}
	size := info.Size()
	if offset >= size {
		return nil
	}
	n := size - offset
	buf := make([]byte, n)
	if _, err := f.ReadAt(buf, offset); err != nil {
		return nil
	}
	content := toValidUTF8Lossy(buf)
	return splitLines(content)
}

// toValidUTF8Lossy decodes b as UTF-8, replacing invalid byte sequences
// with the Unicode replacement character, mirroring Python's
// bytes.decode("utf-8", errors="replace").
func toValidUTF8Lossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
