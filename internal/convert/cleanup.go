package convert

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cdjready/internal/logging"
)

// CleanResult contains the outcome of a partial file cleanup.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanPartials removes unfinished outputs left in dir by an interrupted run:
// ffmpeg "<stem><suffix>.part.<wav|aiff|flac>" files and copy temporaries
// ".<stem><suffix>.<ext>.<digits>.part". Anything else, including user files
// that merely contain ".part", is left alone. Callers must hold the
// directory lock, so nothing found is in use.
func CleanPartials(dir, suffix string, logger *slog.Logger) CleanResult {
	result := CleanResult{}

	dir = strings.TrimSpace(dir)
	if suffix == "" {
		suffix = DefaultOutputSuffix
	}
	if dir == "" {
		return result
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
		}
		return result
	}

	for _, entry := range entries {
		if entry.IsDir() || !isPartialName(entry.Name(), suffix) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			if logger != nil {
				logging.WarnWithContext(logger, "failed to remove partial output", "partial_cleanup_failed",
					logging.String("path", path),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check output directory permissions"),
					logging.String(logging.FieldImpact, "stale partial file left on disk"),
				)
			}
			continue
		}
		result.Removed = append(result.Removed, path)
		if logger != nil {
			logger.Info("removed partial output",
				logging.String("path", path),
				logging.String(logging.FieldEventType, "partial_cleanup"),
			)
		}
	}

	return result
}

func isPartialName(name, suffix string) bool {
	if strings.HasPrefix(name, ".") {
		return isCopyTemp(name, suffix)
	}
	ext := filepath.Ext(name)
	switch strings.ToLower(ext) {
	case ".wav", ".aiff", ".flac":
	default:
		return false
	}
	stem, ok := strings.CutSuffix(strings.TrimSuffix(name, ext), ".part")
	return ok && strings.HasSuffix(stem, suffix)
}

// isCopyTemp matches the names fileutil.CopyFile gives its temporaries.
func isCopyTemp(name, suffix string) bool {
	body, ok := strings.CutSuffix(strings.TrimPrefix(name, "."), ".part")
	if !ok {
		return false
	}
	dot := strings.LastIndexByte(body, '.')
	if dot <= 0 || !allDigits(body[dot+1:]) {
		return false
	}
	base := body[:dot]
	ext := filepath.Ext(base)
	return ext != "" && strings.HasSuffix(strings.TrimSuffix(base, ext), suffix)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
