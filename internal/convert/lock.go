package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/gofrs/flock"
)

// LockFileName is created in every output directory for the duration of a run.
const LockFileName = ".cdjready.lock"

// ErrLocked is returned when another run holds an output directory.
var ErrLocked = errors.New("output directory is in use by another cdjready run")

// DirLock holds advisory locks on a set of output directories.
type DirLock struct {
	locks []*flock.Flock
}

// OutputDirs lists the distinct output directories for sources, sorted.
func OutputDirs(sources []string, outputDir string) []string {
	dirs := make([]string, 0, len(sources))
	for _, source := range sources {
		dirs = append(dirs, OutputDir(source, outputDir))
	}
	slices.Sort(dirs)
	return slices.Compact(dirs)
}

// LockDirs creates and locks every directory in dirs. Locks are taken in
// sorted order; on any failure the ones already held are released.
func LockDirs(dirs []string) (*DirLock, error) {
	sorted := slices.Clone(dirs)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	held := &DirLock{}
	for _, dir := range sorted {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			held.Release()
			return nil, fmt.Errorf("create output dir: %w", err)
		}
		lock := flock.New(filepath.Join(dir, LockFileName))
		ok, err := lock.TryLock()
		if err != nil {
			held.Release()
			return nil, fmt.Errorf("acquire lock %s: %w", dir, err)
		}
		if !ok {
			held.Release()
			return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
		}
		held.locks = append(held.locks, lock)
	}
	return held, nil
}

// Release unlocks every held lock. Lock files stay in place.
func (l *DirLock) Release() error {
	if l == nil {
		return nil
	}
	var errs []error
	for _, lock := range l.locks {
		if err := lock.Unlock(); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", lock.Path(), err))
		}
	}
	l.locks = nil
	return errors.Join(errs...)
}
