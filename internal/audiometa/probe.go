package audiometa

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"cdjready/internal/media/ffprobe"
	"cdjready/internal/services"
)

// DefaultProbeTimeout bounds a single ffprobe invocation.
const DefaultProbeTimeout = 30 * time.Second

var (
	ErrProbeTimeout       = errors.New("probe timed out")
	ErrInvalidProbeOutput = errors.New("invalid or empty probe output")
)

// inspect is the ffprobe runner. It is a package variable so tests can stub it.
var inspect = ffprobe.Inspect

// SetProbeForTests overrides the ffprobe runner during tests.
func SetProbeForTests(fn func(context.Context, string, string) (ffprobe.Result, error)) func() {
	previous := inspect
	inspect = fn
	return func() {
		inspect = previous
	}
}

// Probe runs ffprobe against path and normalizes the first audio stream.
// A non-positive timeout selects DefaultProbeTimeout.
func Probe(ctx context.Context, binary, path string, timeout time.Duration) (AudioMetadata, error) {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if _, err := os.Stat(path); err != nil {
		return AudioMetadata{}, services.Wrap(services.ErrNotFound, "probe", "stat", "file not readable", err)
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := inspect(probeCtx, binary, path)
	if err != nil {
		switch {
		case errors.Is(probeCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
			return AudioMetadata{}, services.Wrap(services.ErrTimeout, "probe", "ffprobe", timeout.String(), ErrProbeTimeout)
		case ctx.Err() != nil:
			return AudioMetadata{}, ctx.Err()
		case errors.Is(err, ffprobe.ErrEmptyOutput), strings.Contains(err.Error(), "ffprobe parse"):
			return AudioMetadata{}, services.Wrap(services.ErrExternalTool, "probe", "ffprobe", err.Error(), ErrInvalidProbeOutput)
		default:
			return AudioMetadata{}, services.Wrap(services.ErrExternalTool, "probe", "ffprobe", "", err)
		}
	}

	meta, err := FromProbe(path, result)
	if err != nil {
		return AudioMetadata{}, services.Wrap(services.ErrValidation, "probe", "parse", "", err)
	}
	return meta, nil
}
