package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cdjready/internal/config"
	"cdjready/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	musicDir   string
	outputDir  string
}

func setupCLITestEnv(t *testing.T, ffmpeg testsupport.FFmpegBehavior, probeRate int) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedTools(ffmpeg, probeRate))
	base := testsupport.BaseDir(cfg)
	isolateEnv(t, filepath.Join(base, "home"))

	configPath := filepath.Join(base, "cdjready.toml")
	writeTestConfig(t, configPath, cfg.Binaries.FFmpeg, cfg.Binaries.FFprobe, cfg.Convert.OutputDir)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		musicDir:   filepath.Join(base, "music"),
		outputDir:  cfg.Convert.OutputDir,
	}
}

func isolateEnv(t *testing.T, home string) {
	t.Helper()
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv(config.EnvProfile, "")
	t.Setenv(config.EnvFFmpegPath, "")
	t.Setenv(config.EnvFFprobePath, "")
}

func writeTestConfig(t *testing.T, path, ffmpeg, ffprobe, outputDir string) {
	t.Helper()
	content := fmt.Sprintf("[binaries]\nffmpeg = %q\nffprobe = %q\n\n[convert]\noutput_dir = %q\n", ffmpeg, ffprobe, outputDir)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
