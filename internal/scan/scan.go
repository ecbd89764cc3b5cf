// Package scan expands command-line inputs into the audio files to inspect.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cdjready/internal/classify"
	"cdjready/internal/services"
)

// ErrNoInputs is returned when Collect is called without paths.
var ErrNoInputs = errors.New("no input paths")

// Collect resolves paths to absolute audio file paths. Directories are walked
// recursively and filtered by extension; hidden files and directories are
// skipped. Files named explicitly are always kept so unknown formats still
// get a verdict. The result is sorted and free of duplicates.
//
// Each exclude entry is either a bare directory name, skipped wherever it
// appears below a walked root, or a path whose subtree is skipped. Output
// directories are passed here so converted files are not picked up again.
func Collect(paths []string, exclude ...string) ([]string, error) {
	if len(paths) == 0 {
		return nil, services.Wrap(services.ErrValidation, "scan", "collect", "", ErrNoInputs)
	}
	skip := newSkipSet(exclude)
	var files []string
	for _, raw := range paths {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		abs, err := filepath.Abs(raw)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", raw, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, services.Wrap(services.ErrNotFound, "scan", "stat", abs, err)
			}
			return nil, fmt.Errorf("stat %s: %w", abs, err)
		}
		if !info.IsDir() {
			files = append(files, abs)
			continue
		}
		found, err := walk(abs, skip)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

type skipSet struct {
	names map[string]struct{}
	paths map[string]struct{}
}

func newSkipSet(exclude []string) skipSet {
	set := skipSet{names: map[string]struct{}{}, paths: map[string]struct{}{}}
	for _, entry := range exclude {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.ContainsRune(entry, filepath.Separator) {
			set.names[entry] = struct{}{}
			continue
		}
		if abs, err := filepath.Abs(entry); err == nil {
			set.paths[abs] = struct{}{}
		}
	}
	return set
}

func (s skipSet) skips(path, name string) bool {
	if _, ok := s.names[name]; ok {
		return true
	}
	_, ok := s.paths[path]
	return ok
}

func walk(root string, skip skipSet) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && d.IsDir() && skip.skips(path, d.Name()) {
			return filepath.SkipDir
		}
		if path != root && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if classify.IsAudioExtension(filepath.Ext(path)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
