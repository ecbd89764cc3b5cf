package fileutil

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.wav")
	dst := filepath.Join(dir, "out", "dst.wav")

	content := []byte("RIFF....WAVE")
	if err := os.WriteFile(src, content, 0o640); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Fatalf("mode = %o, want 640", info.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(dst))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the copied file, found %d entries", len(entries))
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFile(filepath.Join(dir, "missing"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := os.Stat(filepath.Join(dir, "dst")); !os.IsNotExist(err) {
		t.Fatal("destination should not exist")
	}
}

func TestVerifyDigestDetectsChangedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "copy.wav")
	if err := os.WriteFile(path, []byte("RIFF....WAVE"), 0o644); err != nil {
		t.Fatal(err)
	}
	sum := sha256.Sum256([]byte("RIFF....WAVE"))
	if err := verifyDigest(path, sum[:]); err != nil {
		t.Fatalf("expected matching digest, got %v", err)
	}

	if err := os.WriteFile(path, []byte("RIFF..X.WAVE"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := verifyDigest(path, sum[:]); err == nil {
		t.Fatal("expected mismatch after content changed on disk")
	}
}

func TestFreeBytes(t *testing.T) {
	free, err := FreeBytes(t.TempDir())
	if err != nil {
		t.Fatalf("FreeBytes returned error: %v", err)
	}
	if free == 0 {
		t.Fatal("expected some free space in temp dir")
	}
}

func TestEnsureWritableDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureWritableDir(dir); err != nil {
		t.Fatalf("EnsureWritableDir returned error: %v", err)
	}
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureWritableDir(file); err == nil {
		t.Fatal("expected error for regular file")
	}
}
