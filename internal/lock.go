package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// WriteFileLocked replaces content of the file while holding an exclusive advisory lock on it.
// Content goes to a temporary file in the same directory which is synced and renamed over the target,
// so the target is either the old or the new version. New files get perm, existing permissions are kept.
func WriteFileLocked(path string, data []byte, perm os.FileMode) (err error) {
	mode := perm
	info, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		mode = info.Mode().Perm()
	case !errors.Is(statErr, os.ErrNotExist):
		return fmt.Errorf("stat file: %w", statErr)
	}

	lock := flock.New(path)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock file: %w", err)
	}
	defer lock.Unlock() //nolint:errcheck
	if statErr != nil {
		// lock created an empty file, it must not outlive a failed write
		defer func() {
			if err != nil {
				_ = os.Remove(path)
			}
		}()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := tmp.Chmod(mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}
