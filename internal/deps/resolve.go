package deps

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"cdjready/internal/services"
)

// VerifyTimeout bounds the "-version" sanity check run on every candidate.
const VerifyTimeout = 5 * time.Second

// InstallHint is shown when ffmpeg or ffprobe cannot be found.
const InstallHint = "install ffmpeg (e.g. `brew install ffmpeg` or `apt install ffmpeg`), " +
	"set CDJREADY_FFMPEG_PATH/CDJREADY_FFPROBE_PATH, or place the binaries in ~/.cdjready/bin"

// Source records where a binary was found.
type Source string

const (
	SourceEnv    Source = "env"
	SourceConfig Source = "config"
	SourceBinDir Source = "bin_dir"
	SourceHome   Source = "home"
	SourcePath   Source = "path"
)

// ErrBinaryNotFound is returned when no candidate passes verification.
var ErrBinaryNotFound = errors.New("binary not found")

// Resolved is a verified executable.
type Resolved struct {
	Path    string
	Source  Source
	Version string
}

type candidate struct {
	path   string
	source Source
}

// ResolveBinary locates name, checking in order: the envVar override, an
// explicit path in name, binDir, ~/.cdjready/bin and finally PATH. The first
// candidate that answers "-version" wins.
func ResolveBinary(ctx context.Context, name, envVar, binDir string) (Resolved, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Resolved{}, services.Wrap(services.ErrConfiguration, "deps", "resolve", "empty binary name", nil)
	}

	base := filepath.Base(name)
	var candidates []candidate
	if envVar != "" {
		if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
			candidates = append(candidates, candidate{v, SourceEnv})
		}
	}
	if strings.ContainsRune(name, filepath.Separator) {
		candidates = append(candidates, candidate{name, SourceConfig})
	}
	if binDir = strings.TrimSpace(binDir); binDir != "" {
		candidates = append(candidates, candidate{filepath.Join(binDir, executableName(base)), SourceBinDir})
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, candidate{filepath.Join(home, ".cdjready", "bin", executableName(base)), SourceHome})
	}
	if found, err := exec.LookPath(base); err == nil {
		candidates = append(candidates, candidate{found, SourcePath})
	}

	var tried []string
	for _, c := range candidates {
		info, err := os.Stat(c.path)
		if err != nil || !isExecutable(info) {
			continue
		}
		version, err := verify(ctx, c.path)
		if err != nil {
			tried = append(tried, fmt.Sprintf("%s (%v)", c.path, err))
			continue
		}
		return Resolved{Path: c.path, Source: c.source, Version: version}, nil
	}

	detail := fmt.Sprintf("%s not found", base)
	if len(tried) > 0 {
		detail = fmt.Sprintf("%s failed verification: %s", base, strings.Join(tried, "; "))
	}
	return Resolved{}, services.Wrap(services.ErrExternalTool, "deps", "resolve", detail, ErrBinaryNotFound)
}

// verify runs "<bin> -version" and returns its first output line.
func verify(ctx context.Context, path string) (string, error) {
	verifyCtx, cancel := context.WithTimeout(ctx, VerifyTimeout)
	defer cancel()

	cmd := exec.CommandContext(verifyCtx, path, "-version")
	cmd.WaitDelay = time.Second
	out, err := cmd.Output()
	if err != nil {
		if verifyCtx.Err() != nil {
			return "", fmt.Errorf("-version timed out")
		}
		return "", err
	}
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	return "", nil
}

func executableName(base string) string {
	if runtime.GOOS == "windows" && !strings.HasSuffix(base, ".exe") {
		return base + ".exe"
	}
	return base
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
