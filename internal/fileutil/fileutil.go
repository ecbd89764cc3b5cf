// Package fileutil holds small filesystem helpers shared by the conversion
// pipeline: verified atomic copies, free space queries and writability checks.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ErrNotWritable is returned when a directory exists but cannot be written.
var ErrNotWritable = errors.New("directory not writable")

// CopyFile copies src to dst atomically. Content is streamed into a
// temporary file next to dst, read back to check size and SHA-256 against
// the source, then renamed into place, so dst is never left partially
// written. The source mode is preserved.
func CopyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.part")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	srcHasher := sha256.New()
	written, err := io.Copy(tmp, io.TeeReader(in, srcHasher))
	if err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if written != srcInfo.Size() {
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}
	if err := verifyDigest(tmpPath, srcHasher.Sum(nil)); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, srcInfo.Mode().Perm()); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return err
	}
	committed = true
	return nil
}

// verifyDigest re-reads path from disk and compares its SHA-256 with want.
func verifyDigest(path string, want []byte) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reopen copy: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("read back copy: %w", err)
	}
	if !bytes.Equal(h.Sum(nil), want) {
		return errors.New("copy hash mismatch: file corrupted during copy")
	}
	return nil
}

// FreeBytes reports the space available to unprivileged users on the
// filesystem holding dir.
func FreeBytes(dir string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", dir, err)
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

// EnsureWritableDir creates dir if needed and verifies the process can
// create files in it.
func EnsureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", dir)
	}
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotWritable, dir, err)
	}
	return nil
}
