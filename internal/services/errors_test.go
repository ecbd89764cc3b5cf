package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"cdjready/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "convert", "ffmpeg", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"convert", "ffmpeg", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestExitCodeMapping(t *testing.T) {
	configErr := services.Wrap(services.ErrConfiguration, "config", "load", "invalid", nil)
	if code := services.ExitCode(configErr); code != services.ExitConfiguration {
		t.Fatalf("expected configuration exit code, got %d", code)
	}

	toolErr := fmt.Errorf("startup: %w", services.Wrap(services.ErrExternalTool, "deps", "resolve", "ffmpeg missing", nil))
	if code := services.ExitCode(toolErr); code != services.ExitExternalTool {
		t.Fatalf("expected external tool exit code, got %d", code)
	}

	if code := services.ExitCode(errors.New("io")); code != services.ExitFailure {
		t.Fatalf("expected generic failure exit code, got %d", code)
	}
	if code := services.ExitCode(nil); code != 0 {
		t.Fatalf("expected zero exit code for nil error, got %d", code)
	}
}
