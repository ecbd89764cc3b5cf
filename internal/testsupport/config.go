package testsupport

import (
	"path/filepath"
	"testing"

	"cdjready/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a per-test temp directory. The
// output directory is <base>/out and logging stays off disk.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Convert.OutputDir = filepath.Join(base, "out")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithProfile selects the device profile on the test config.
func WithProfile(id string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Check.Profile = id
	}
}

// WithWorkers sets the conversion worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Convert.Workers = config.ClampWorkers(n)
	}
}

// WithStubbedTools writes stub ffmpeg and ffprobe executables into
// <base>/bin and points the config at them.
func WithStubbedTools(ffmpeg FFmpegBehavior, probeRate int) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		b.cfg.Binaries.BinDir = binDir
		b.cfg.Binaries.FFmpeg = WriteFFmpegStub(b.t, binDir, ffmpeg)
		b.cfg.Binaries.FFprobe = WriteFFprobeStub(b.t, binDir, probeRate)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Convert.OutputDir)
}
