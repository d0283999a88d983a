// Package filex holds small filesystem helpers shared by the encoder and the
// compilers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// EnsureDir creates dir and any missing parents. It is a no-op when dir
// already exists.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// TempPath returns a unique, hidden sibling path for dest. The file is not
// created.
func TempPath(dest string) string {
	return filepath.Join(filepath.Dir(dest), fmt.Sprintf(".%s.%s.tmp", filepath.Base(dest), uuid.New()))
}

// Commit moves tmp over dest. On failure tmp is removed and dest is left as it
// was.
func Commit(tmp, dest string) error {
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", dest, err)
	}
	return nil
}

// WriteAtomic writes data to a temp sibling of dest and renames it into
// place, so readers never observe a partially written dest.
func WriteAtomic(dest string, data []byte, perm os.FileMode) error {
	tmp := TempPath(dest)

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}

	return Commit(tmp, dest)
}
