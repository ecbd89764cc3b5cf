package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cdjready/internal/config"
	"cdjready/internal/services"
)

func TestLoadDefaultsWhenConfigMissing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvProfile, "")
	t.Chdir(t.TempDir())

	cfg, path, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatalf("expected no config file, got %s", path)
	}
	if want := filepath.Join(home, ".config", "cdjready", "config.toml"); path != want {
		t.Fatalf("unexpected default path: got %q want %q", path, want)
	}
	if cfg.Check.Profile != "cdj_2000_nxs" {
		t.Fatalf("unexpected default profile %q", cfg.Check.Profile)
	}
	if cfg.Convert.Workers != 2 || cfg.Convert.TimeoutSeconds != 300 || cfg.Convert.OutputSuffix != "_CDJ" {
		t.Fatalf("unexpected convert defaults: %+v", cfg.Convert)
	}
	if cfg.Probe.TimeoutSeconds != 30 {
		t.Fatalf("unexpected probe timeout %d", cfg.Probe.TimeoutSeconds)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected binary defaults: %q %q", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}
}

func TestLoadProjectConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvProfile, "")
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile("cdjready.toml", []byte("[check]\nprofile = \"CDJ_3000\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, path, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(path) != "cdjready.toml" {
		t.Fatalf("expected project config to be used, got %q exists=%v", path, exists)
	}
	if cfg.Check.Profile != "cdj_3000" {
		t.Fatalf("expected normalized profile, got %q", cfg.Check.Profile)
	}
}

func TestLoadEnvProfileOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvProfile, "xdj_700")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[check]\nprofile = \"cdj_3000\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Check.Profile != "xdj_700" {
		t.Fatalf("expected env profile to win, got %q", cfg.Check.Profile)
	}
}

func TestLoadClampsWorkersAndExpandsPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvProfile, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[convert]
workers = 12
timeout_seconds = -5
output_dir = "~/cdj"

[binaries]
bin_dir = "~/bin"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected explicit config to exist")
	}
	if cfg.Convert.Workers != 4 {
		t.Fatalf("expected workers clamped to 4, got %d", cfg.Convert.Workers)
	}
	if cfg.Convert.TimeoutSeconds != 300 {
		t.Fatalf("expected default timeout, got %d", cfg.Convert.TimeoutSeconds)
	}
	if cfg.Convert.OutputDir != filepath.Join(home, "cdj") {
		t.Fatalf("unexpected output dir %q", cfg.Convert.OutputDir)
	}
	if cfg.Binaries.BinDir != filepath.Join(home, "bin") {
		t.Fatalf("unexpected bin dir %q", cfg.Binaries.BinDir)
	}
}

func TestLoadRejectsUnknownProfile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvProfile, "cdj_9000")
	_, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("expected unknown profile error")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvProfile, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[convert]\nthreads = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvProfile, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(path)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvProfile, "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists || cfg.Check.Profile != "cdj_2000_nxs" {
		t.Fatalf("unexpected sample config: exists=%v profile=%q", exists, cfg.Check.Profile)
	}
}

func TestClampWorkers(t *testing.T) {
	cases := map[int]int{-1: 2, 0: 2, 1: 1, 3: 3, 4: 4, 9: 4}
	for in, want := range cases {
		if got := config.ClampWorkers(in); got != want {
			t.Fatalf("ClampWorkers(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestClampRequestedWorkers(t *testing.T) {
	cases := map[int]int{-3: 1, 0: 1, 1: 1, 2: 2, 4: 4, 9: 4}
	for in, want := range cases {
		if got := config.ClampRequestedWorkers(in); got != want {
			t.Fatalf("ClampRequestedWorkers(%d) = %d, want %d", in, got, want)
		}
	}
}
