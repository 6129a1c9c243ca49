// =============================================================================
// Manga CSV to MAL Converter - File Manager Utility
// =============================================================================
//
// This module provides the file handling around a conversion:
//   - Input existence checks
//   - Output path derivation from the input path
//   - Locked, atomic output writes
//
// WRITE STRATEGY:
//   The document is written to a uniquely named temp file in the output
//   directory, synced, then renamed over the target. A reader never sees a
//   half-written export, and an interrupted run leaves the previous export
//   (if any) untouched. An advisory lock on "<output>.lock" keeps two
//   concurrent runs on the same list from interleaving. The lock file is
//   left in place after the write; unlinking it would let a waiting run and
//   a new run lock two different files.
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// ErrOutputLocked is returned when another process holds the output lock.
var ErrOutputLocked = errors.New("output file is locked by another conversion")

// =============================================================================
// PATH HELPERS
// =============================================================================

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// OutputPath derives the output path by replacing the extension of
// inputPath with suffix.
//
// EXAMPLE:
//   inputPath: "exports/comick.csv"
//   suffix:    "_mal.xml"
//   output:    "exports/comick_mal.xml"
//
// A path without an extension simply gets the suffix appended, so the output
// can never be the input file itself.
func OutputPath(inputPath, suffix string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	if base == "" || strings.HasSuffix(base, string(filepath.Separator)) {
		// ".csv" on its own: keep the name, only add the suffix.
		base = inputPath
	}
	return base + suffix
}

// =============================================================================
// ATOMIC WRITE
// =============================================================================

// WriteFileAtomic writes data to path via a temp file and rename, while
// holding an advisory lock on path+".lock". The lock file persists.
//
// RETURNS:
//   - ErrOutputLocked if another process is writing the same output.
//   - Any error from creating, writing, syncing or renaming the file. On
//     error the temp file is removed and path is left as it was.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	lockPath := path + ".lock"
	lock := flock.New(lockPath)

	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock %s: %w", lockPath, err)
	}
	if !locked {
		return fmt.Errorf("%s: %w", path, ErrOutputLocked)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("failed to release lock %s: %w", lockPath, unlockErr)
		}
	}()

	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	return nil
}
