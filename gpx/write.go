package gpx

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic replaces path with the serialized document. The document
// is written to a temporary file in the same directory, forced to stable
// storage and renamed onto path in one filesystem operation, so readers see
// either the old file or the new one, never a partial write. On failure the
// temporary file is removed and path is left untouched.
func (d *Document) WriteFileAtomic(path string) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.new")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tmp := f.Name()
	if err := d.WriteTo(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write `%s': %w", tmp, err)
	}
	// The rename must never end up pointing at data that has not survived
	// a crash.
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync `%s': %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close `%s': %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("move `%s' to `%s': %w", tmp, path, err)
	}
	return nil
}
