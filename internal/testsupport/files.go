package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFixture writes size bytes of filler audio data to dir/name and
// returns the path. A size <= 0 writes a single byte.
func WriteFixture(t testing.TB, dir, name string, size int64) string {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
