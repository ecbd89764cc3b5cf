package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"cdjready/internal/compat"
	"cdjready/internal/fileutil"
	"cdjready/internal/logging"
	"cdjready/internal/services"
	"cdjready/internal/textutil"
)

// CopyCompatible copies already playable files into their output directory
// unchanged, so a run can produce one complete folder for the deck.
func (t *Transcoder) CopyCompatible(ctx context.Context, results []compat.Result) []Outcome {
	outcomes := make([]Outcome, 0, len(results))
	for _, r := range results {
		if !r.IsCompatible() {
			continue
		}
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, Outcome{Source: r.Path, Kind: KindCancelled, Message: "Copy cancelled", Err: err})
			continue
		}
		outcomes = append(outcomes, t.copyOne(ctx, r.Path))
	}
	return outcomes
}

func (t *Transcoder) copyOne(ctx context.Context, source string) Outcome {
	start := time.Now()
	outcome := Outcome{Source: source, Copied: true}
	dir := OutputDir(source, t.OutputDir)
	dst := filepath.Join(dir, OutputName(source, t.OutputSuffix, strings.ToLower(filepath.Ext(source))))

	err := fileutil.EnsureWritableDir(dir)
	if err == nil {
		err = fileutil.CopyFile(source, dst)
	}
	outcome.Duration = time.Since(start)
	if err != nil {
		kind := KindUnknown
		switch {
		case errors.Is(err, fs.ErrNotExist):
			kind = KindMissingInput
		case errors.Is(err, fs.ErrPermission), errors.Is(err, fileutil.ErrNotWritable):
			kind = KindPermissionDenied
		}
		outcome.Kind = kind
		outcome.Err = &ConversionError{Kind: kind, Err: fmt.Errorf("copy: %w", err)}
		outcome.Message = "Copy failed: " + textutil.Truncate(err.Error(), maxMessageLen)
		logging.WarnWithContext(logging.WithContext(services.WithFile(ctx, source), t.logger()),
			"copy failed", "copy_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hintFor(kind)),
			logging.String(logging.FieldImpact, "compatible file missing from output directory"),
		)
		return outcome
	}
	outcome.Success = true
	outcome.Output = dst
	outcome.Message = "Copied (already compatible)"
	return outcome
}
