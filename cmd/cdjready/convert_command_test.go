package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cdjready/internal/config"
	"cdjready/internal/convert"
	"cdjready/internal/services"
	"cdjready/internal/testsupport"
)

func writeExecutable(t *testing.T, path, script string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestConvertWritesOutputsAndMetrics(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.FFmpegOK, 96000)
	testsupport.WriteFixture(t, env.musicDir, "hires.wav", 256)
	metricsFile := filepath.Join(t.TempDir(), "cdjready.prom")

	out, _, err := runCLI(t, []string{"convert", env.musicDir, "--metrics-file", metricsFile}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "Converted 1 of 1 file(s)")
	requireContains(t, out, "Converted to WAV 24bit/48.0kHz")

	if _, err := os.Stat(filepath.Join(env.outputDir, "hires_CDJ.wav")); err != nil {
		t.Fatalf("expected converted output: %v", err)
	}
	data, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	requireContains(t, string(data), "cdjready_conversions_total")
	requireContains(t, string(data), `result="success"`)
}

func TestConvertJSONAndOutputDirFlag(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.FFmpegOK, 96000)
	path := testsupport.WriteFixture(t, env.musicDir, "hires.wav", 256)
	target := filepath.Join(t.TempDir(), "usb")

	out, _, err := runCLI(t, []string{"convert", "--json", "--output-dir", target, "--workers", "9", path}, env.configPath)
	if err != nil {
		t.Fatalf("convert --json: %v", err)
	}
	var report convertReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if report.Summary.Successful != 1 || len(report.Outcomes) != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Outcomes[0].Output != filepath.Join(target, "hires_CDJ.wav") {
		t.Fatalf("unexpected output %q", report.Outcomes[0].Output)
	}
}

func TestConvertFailureExitsNonZero(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.FFmpegCorrupt, 96000)
	testsupport.WriteFixture(t, env.musicDir, "broken.wav", 256)

	out, _, err := runCLI(t, []string{"convert", env.musicDir}, env.configPath)
	if !errors.Is(err, errConversionsFailed) {
		t.Fatalf("expected conversion failure error, got %v", err)
	}
	if services.ExitCode(err) != services.ExitFailure {
		t.Fatalf("expected exit code 1, got %d", services.ExitCode(err))
	}
	requireContains(t, out, "Corrupted or unreadable input")
	requireContains(t, out, "1 failed")
}

func TestConvertNothingToDo(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.FFmpegOK, 48000)
	testsupport.WriteFixture(t, env.musicDir, "ready.wav", 256)

	out, _, err := runCLI(t, []string{"convert", env.musicDir}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "Nothing to convert")
}

func TestConvertIncludeCompatibleCopies(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.FFmpegOK, 48000)
	testsupport.WriteFixture(t, env.musicDir, "ready.wav", 256)

	out, _, err := runCLI(t, []string{"convert", "--include-compatible", env.musicDir}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "copied 1 compatible file(s)")
	if _, err := os.Stat(filepath.Join(env.outputDir, "ready_CDJ.wav")); err != nil {
		t.Fatalf("expected copied file: %v", err)
	}
}

func TestConvertRerunSkipsOutputDirectory(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.FFmpegOK, 48000)
	testsupport.WriteFixture(t, env.musicDir, "ready.wav", 256)
	configPath := filepath.Join(t.TempDir(), "cdjready.toml")
	writeTestConfig(t, configPath, env.cfg.Binaries.FFmpeg, env.cfg.Binaries.FFprobe, "")
	target := filepath.Join(env.musicDir, convert.DefaultOutputDirName)

	for run := 1; run <= 2; run++ {
		out, _, err := runCLI(t, []string{"convert", "--include-compatible", env.musicDir}, configPath)
		if err != nil {
			t.Fatalf("convert run %d: %v", run, err)
		}
		requireContains(t, out, "copied 1 compatible file(s)")
	}
	if _, err := os.Stat(filepath.Join(target, "ready_CDJ.wav")); err != nil {
		t.Fatalf("expected copied file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(target, convert.DefaultOutputDirName)); !os.IsNotExist(err) {
		t.Fatalf("expected no nested output directory, got %v", err)
	}
}

func TestConvertExplicitZeroWorkersUsesOne(t *testing.T) {
	cmd := newConvertCommand(newCommandContext(&globalFlags{}))
	if err := cmd.Flags().Set("workers", "0"); err != nil {
		t.Fatalf("set workers: %v", err)
	}
	cfg := config.Default()
	if err := applyConvertFlags(cmd, &cfg, convertOptions{workers: 0}); err != nil {
		t.Fatalf("applyConvertFlags: %v", err)
	}
	if cfg.Convert.Workers != 1 {
		t.Fatalf("expected 1 worker, got %d", cfg.Convert.Workers)
	}
}

func TestConvertCustomSettings(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.FFmpegOK, 96000)
	path := testsupport.WriteFixture(t, env.musicDir, "hires.wav", 256)

	_, _, err := runCLI(t, []string{"convert", "--format", "flac", path}, env.configPath)
	if services.ExitCode(err) != services.ExitConfiguration || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for FLAC on a deck without FLAC, got %v", err)
	}

	_, _, err = runCLI(t, []string{"convert", "--max-quality", "--bit-depth", "16", path}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected conflicting flags to be rejected, got %v", err)
	}

	out, _, err := runCLI(t, []string{"convert", "--format", "aiff", "--sample-rate", "44100", path}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "Converted to AIFF 16bit/44.1kHz")
	if _, err := os.Stat(filepath.Join(env.outputDir, "hires_CDJ.aiff")); err != nil {
		t.Fatalf("expected aiff output: %v", err)
	}
}

func TestConvertLockedOutputDir(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.FFmpegOK, 96000)
	path := testsupport.WriteFixture(t, env.musicDir, "hires.wav", 256)

	lock, err := convert.LockDirs([]string{env.outputDir})
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer lock.Release()

	_, _, err = runCLI(t, []string{"convert", path}, env.configPath)
	if !errors.Is(err, convert.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}
