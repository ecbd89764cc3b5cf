package audiometa

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cdjready/internal/media/ffprobe"
	"cdjready/internal/services"
)

func writeTempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestProbeNormalizesResult(t *testing.T) {
	path := writeTempFile(t, "a.flac")
	restore := SetProbeForTests(func(_ context.Context, binary, p string) (ffprobe.Result, error) {
		if binary != "ffprobe-test" || p != path {
			t.Fatalf("unexpected probe args: %q %q", binary, p)
		}
		return ffprobe.Result{Streams: []ffprobe.Stream{{CodecType: "audio", CodecName: "flac", SampleRate: "48000", BitsPerRawSample: "24"}}}, nil
	})
	defer restore()

	meta, err := Probe(context.Background(), "ffprobe-test", path, time.Second)
	if err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if meta.Codec != "FLAC" || meta.SampleRate != 48000 || meta.BitDepth != 24 {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestProbeMissingFile(t *testing.T) {
	_, err := Probe(context.Background(), "", filepath.Join(t.TempDir(), "missing.mp3"), 0)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProbeTimeout(t *testing.T) {
	path := writeTempFile(t, "slow.wav")
	restore := SetProbeForTests(func(ctx context.Context, _, _ string) (ffprobe.Result, error) {
		<-ctx.Done()
		return ffprobe.Result{}, ctx.Err()
	})
	defer restore()

	_, err := Probe(context.Background(), "", path, 10*time.Millisecond)
	if !errors.Is(err, ErrProbeTimeout) || !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected probe timeout, got %v", err)
	}
}

func TestProbeEmptyOutput(t *testing.T) {
	path := writeTempFile(t, "empty.mp3")
	restore := SetProbeForTests(func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{}, ffprobe.ErrEmptyOutput
	})
	defer restore()

	_, err := Probe(context.Background(), "", path, time.Second)
	if !errors.Is(err, ErrInvalidProbeOutput) || !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected invalid output error, got %v", err)
	}
}

func TestProbeNoAudioStream(t *testing.T) {
	path := writeTempFile(t, "cover.mp3")
	restore := SetProbeForTests(func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{Streams: []ffprobe.Stream{{CodecType: "video"}}}, nil
	})
	defer restore()

	_, err := Probe(context.Background(), "", path, time.Second)
	if !errors.Is(err, ErrNoAudioStream) {
		t.Fatalf("expected no audio stream error, got %v", err)
	}
}
