package convert_test

import (
	"errors"
	"path/filepath"
	"testing"

	"cdjready/internal/convert"
)

func TestLockDirsRejectsConcurrentRun(t *testing.T) {
	base := t.TempDir()
	dirs := []string{filepath.Join(base, "b"), filepath.Join(base, "a"), filepath.Join(base, "a")}

	first, err := convert.LockDirs(dirs)
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}
	if _, err := convert.LockDirs([]string{filepath.Join(base, "a")}); !errors.Is(err, convert.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	second, err := convert.LockDirs(dirs)
	if err != nil {
		t.Fatalf("relock after release: %v", err)
	}
	_ = second.Release()
}

func TestOutputDirsDeduplicates(t *testing.T) {
	sources := []string{"/music/b/one.flac", "/music/a/two.flac", "/music/a/three.flac"}
	got := convert.OutputDirs(sources, "")
	if len(got) != 2 || got[0] != filepath.Join("/music/a", convert.DefaultOutputDirName) {
		t.Fatalf("unexpected dirs %v", got)
	}
	if got := convert.OutputDirs(sources, "/usb"); len(got) != 1 || got[0] != "/usb" {
		t.Fatalf("expected single configured dir, got %v", got)
	}
}
