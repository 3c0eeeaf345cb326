// Package atomicfile provides write-then-rename persistence for the small
// JSON and text records clrun keeps on disk (session records, queue files,
// runtime descriptors). Multiple front-end processes may race on the same
// file; the rename guarantees a reader never observes a truncated write.
//
// This does not make read-modify-write sequences atomic across processes —
// see the package-level docs on session and queue for how each handles that.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// Write serializes data to a temp file beside path, named with the calling
// process's pid, then renames it over path.
func Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("atomicfile: mkdir %s: %w", dir, err)
	}
	tmp := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("atomicfile: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("atomicfile: rename %s -> %s: %w", tmp, path, err)
	}
	return nil
}
