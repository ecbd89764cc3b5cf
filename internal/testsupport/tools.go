package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// FFmpegBehavior selects what the stub ffmpeg does with its output argument.
type FFmpegBehavior string

const (
	// FFmpegOK writes a small output file stamped with the requested -ar
	// value and exits 0.
	FFmpegOK FFmpegBehavior = "ok"
	// FFmpegWrongRate writes output stamped 22050 Hz whatever was requested.
	FFmpegWrongRate FFmpegBehavior = "wrong_rate"
	// FFmpegEmpty creates a zero-byte output and exits 0.
	FFmpegEmpty FFmpegBehavior = "empty"
	// FFmpegCorrupt prints a demuxer error and exits 1.
	FFmpegCorrupt FFmpegBehavior = "corrupt"
	// FFmpegHang sleeps long enough to trip any test timeout.
	FFmpegHang FFmpegBehavior = "hang"
)

// ArgsLogName is the file, next to the stub, that records the last ffmpeg argv.
const ArgsLogName = "ffmpeg.args"

// WriteFFmpegStub writes an ffmpeg stand-in into dir and returns its path.
// Every invocation appends its arguments, one per line, to dir/ffmpeg.args.
// "-version" always succeeds.
func WriteFFmpegStub(t testing.TB, dir string, behavior FFmpegBehavior) string {
	t.Helper()

	var action string
	switch behavior {
	case FFmpegEmpty:
		action = `: > "$out"`
	case FFmpegCorrupt:
		action = `echo "$out: Invalid data found when processing input" >&2; exit 1`
	case FFmpegHang:
		action = `exec sleep 30`
	case FFmpegWrongRate:
		action = `printf 'RATE=22050\n' > "$out"`
	default:
		action = `printf 'RATE=%s\n' "$rate" > "$out"`
	}
	script := fmt.Sprintf(`#!/bin/sh
if [ "$1" = "-version" ]; then
  echo "ffmpeg version stub"
  exit 0
fi
for arg in "$@"; do echo "$arg"; done > "%s"
out=""
rate=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "-ar" ]; then rate="$arg"; fi
  prev="$arg"
  out="$arg"
done
%s
`, filepath.Join(dir, ArgsLogName), action)
	return writeScript(t, dir, "ffmpeg", script)
}

// WriteFFprobeStub writes an ffprobe stand-in that reports one stereo 24-bit
// PCM stream. Files written by the ffmpeg stub report the rate stamped into
// them; any other input reports rate.
func WriteFFprobeStub(t testing.TB, dir string, rate int) string {
	t.Helper()

	script := fmt.Sprintf(`#!/bin/sh
if [ "$1" = "-version" ]; then
  echo "ffprobe version stub"
  exit 0
fi
in=""
for arg in "$@"; do in="$arg"; done
rate=%d
if [ -f "$in" ]; then
  first=""
  read -r first < "$in" || true
  case "$first" in
    RATE=*) rate="${first#RATE=}" ;;
  esac
fi
cat <<JSON
{"streams":[{"index":0,"codec_name":"pcm_s24le","codec_type":"audio","sample_fmt":"s32","sample_rate":"$rate","channels":2,"bits_per_sample":24}],"format":{"format_name":"wav","duration":"12.5","size":"1000"}}
JSON
`, rate)
	return writeScript(t, dir, "ffprobe", script)
}

func writeScript(t testing.TB, dir, name, script string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}
