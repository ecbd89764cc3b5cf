package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/dustin/go-humanize"

	"cdjready/internal/audiometa"
	"cdjready/internal/config"
	"cdjready/internal/fileutil"
	"cdjready/internal/logging"
	"cdjready/internal/planner"
	"cdjready/internal/services"
)

const (
	// DefaultTimeout bounds a single ffmpeg run.
	DefaultTimeout = 300 * time.Second

	// spaceHeadroom is applied to the size estimate before the free space check.
	spaceHeadroom = 1.1

	// waitDelay lets a killed ffmpeg release its pipes before Wait gives up.
	waitDelay = 2 * time.Second
)

// Job is one file to convert.
type Job struct {
	Source   string                  `json:"source"`
	Metadata audiometa.AudioMetadata `json:"metadata"`
	Plan     planner.ConversionPlan  `json:"plan"`
}

// Outcome is the result of converting (or copying) one file.
type Outcome struct {
	Source   string                 `json:"source"`
	Output   string                 `json:"output,omitempty"`
	Success  bool                   `json:"success"`
	Copied   bool                   `json:"copied,omitempty"`
	Message  string                 `json:"message"`
	Kind     FailureKind            `json:"kind,omitempty"`
	Plan     planner.ConversionPlan `json:"plan"`
	Duration time.Duration          `json:"duration"`
	Err      error                  `json:"-"`
}

// Transcoder runs ffmpeg for single jobs.
type Transcoder struct {
	FFmpeg       string
	FFprobe      string
	Timeout      time.Duration
	ProbeTimeout time.Duration
	OutputDir    string
	OutputSuffix string
	Logger       *slog.Logger
}

// NewTranscoder builds a Transcoder from configuration.
func NewTranscoder(cfg *config.Config, logger *slog.Logger) *Transcoder {
	t := &Transcoder{
		FFmpeg:       "ffmpeg",
		FFprobe:      "ffprobe",
		Timeout:      DefaultTimeout,
		OutputSuffix: DefaultOutputSuffix,
		Logger:       logging.NewComponentLogger(logger, "convert"),
	}
	if cfg != nil {
		t.FFmpeg = cfg.FFmpegBinary()
		t.FFprobe = cfg.FFprobeBinary()
		t.Timeout = time.Duration(cfg.Convert.TimeoutSeconds) * time.Second
		t.ProbeTimeout = time.Duration(cfg.Probe.TimeoutSeconds) * time.Second
		t.OutputDir = cfg.Convert.OutputDir
		t.OutputSuffix = cfg.Convert.OutputSuffix
	}
	return t
}

// OutputPath returns where job's converted file is written.
func (t *Transcoder) OutputPath(job Job) string {
	return OutputPath(job.Source, t.OutputDir, t.OutputSuffix, job.Plan)
}

// Convert runs one job. Failures are reported in the Outcome, never returned.
func (t *Transcoder) Convert(ctx context.Context, job Job) Outcome {
	start := time.Now()
	outcome := Outcome{Source: job.Source, Plan: job.Plan}
	output, err := t.convert(ctx, job)
	outcome.Duration = time.Since(start)

	logger := logging.WithContext(services.WithFile(ctx, job.Source), t.logger())
	if err != nil {
		convErr := asConversionError(err)
		outcome.Err = convErr
		outcome.Kind = convErr.Kind
		outcome.Message = convErr.Message()
		logging.WarnWithContext(logger, "conversion failed", "conversion_failed",
			logging.String("kind", string(convErr.Kind)),
			logging.Int("exit_code", convErr.ExitCode),
			logging.Error(convErr),
			logging.String(logging.FieldErrorHint, hintFor(convErr.Kind)),
			logging.String(logging.FieldImpact, "file was not converted"),
		)
		return outcome
	}

	outcome.Success = true
	outcome.Output = output
	outcome.Message = fmt.Sprintf("Converted to %s %s", job.Plan.OutputFormat, resolutionLabel(job.Plan))
	attrs := []logging.Attr{
		logging.String("output", output),
		logging.String("plan", job.Plan.Label()),
		logging.Bool("resampled", job.Plan.Resample),
		logging.Float64("target_khz", float64(job.Plan.TargetSampleRate)/1000),
		logging.Duration("elapsed", outcome.Duration),
	}
	if info, err := os.Stat(output); err == nil {
		attrs = append(attrs, logging.Int64("output_bytes", info.Size()))
	}
	logger.Info("conversion complete", logging.Args(attrs...)...)
	return outcome
}

func (t *Transcoder) convert(ctx context.Context, job Job) (string, error) {
	srcInfo, err := os.Stat(job.Source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &ConversionError{Kind: KindMissingInput, Err: fmt.Errorf("%w: %s", ErrMissingInput, job.Source)}
		}
		if errors.Is(err, fs.ErrPermission) {
			return "", &ConversionError{Kind: KindPermissionDenied, Err: fmt.Errorf("%w: %v", ErrPermissionDenied, err)}
		}
		return "", &ConversionError{Kind: KindUnknown, Err: err}
	}

	output := t.OutputPath(job)
	dir := OutputDir(job.Source, t.OutputDir)
	if err := fileutil.EnsureWritableDir(dir); err != nil {
		return "", &ConversionError{Kind: KindPermissionDenied, Err: fmt.Errorf("%w: %v", ErrPermissionDenied, err)}
	}
	if err := checkDiskSpace(dir, EstimateOutputSize(job, srcInfo.Size())); err != nil {
		return "", err
	}

	partial := partialPath(output)
	defer os.Remove(partial)

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := BuildArgs(job.Source, partial, job.Plan)
	t.logger().Debug("ffmpeg command",
		logging.String(logging.FieldFile, job.Source),
		logging.Any("args", args),
	)
	cmd := exec.CommandContext(runCtx, t.FFmpeg, args...)
	cmd.WaitDelay = waitDelay
	combined, runErr := cmd.CombinedOutput()
	if runErr != nil {
		switch {
		case ctx.Err() != nil:
			return "", &ConversionError{Kind: KindCancelled, Err: ctx.Err()}
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			return "", &ConversionError{Kind: KindTimeout, Err: fmt.Errorf("%w after %s", ErrTimeout, timeout)}
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return "", ClassifyFailure(exitErr.ExitCode(), string(combined))
		}
		return "", &ConversionError{Kind: KindUnknown, Err: services.Wrap(services.ErrExternalTool, "convert", "ffmpeg", "", runErr)}
	}

	if err := t.verify(ctx, partial, job.Plan); err != nil {
		return "", err
	}
	if err := os.Rename(partial, output); err != nil {
		return "", &ConversionError{Kind: KindUnknown, Err: fmt.Errorf("rename output: %w", err)}
	}
	return output, nil
}

// verify checks the post-conditions of a successful ffmpeg run.
func (t *Transcoder) verify(ctx context.Context, path string, plan planner.ConversionPlan) error {
	info, err := os.Stat(path)
	if err != nil {
		return &ConversionError{Kind: KindVerificationFailed, Err: fmt.Errorf("%w: output missing: %v", ErrVerification, err)}
	}
	if info.Size() == 0 {
		return &ConversionError{Kind: KindVerificationFailed, Err: fmt.Errorf("%w: output is empty", ErrVerification)}
	}
	meta, err := audiometa.Probe(ctx, t.FFprobe, path, t.ProbeTimeout)
	if err != nil {
		return &ConversionError{Kind: KindVerificationFailed, Err: fmt.Errorf("%w: probe output: %v", ErrVerification, err)}
	}
	if meta.SampleRate != plan.TargetSampleRate {
		return &ConversionError{Kind: KindVerificationFailed, Err: fmt.Errorf("%w: sample rate %d, expected %d", ErrVerification, meta.SampleRate, plan.TargetSampleRate)}
	}
	return nil
}

// EstimateOutputSize approximates the converted size: duration × rate ×
// channels × bytes per sample, or the source size when the duration is
// unknown.
func EstimateOutputSize(job Job, sourceSize int64) int64 {
	if job.Metadata.DurationSeconds <= 0 {
		return sourceSize
	}
	channels := job.Metadata.Channels
	if channels <= 0 {
		channels = 2
	}
	bytesPerSample := job.Plan.TargetBitDepth / 8
	if bytesPerSample <= 0 {
		bytesPerSample = 2
	}
	return int64(job.Metadata.DurationSeconds * float64(job.Plan.TargetSampleRate*channels*bytesPerSample))
}

func checkDiskSpace(dir string, required int64) error {
	free, err := fileutil.FreeBytes(dir)
	if err != nil {
		// Unknown free space is not a reason to refuse work.
		return nil
	}
	need := uint64(float64(required) * spaceHeadroom)
	if free < need {
		return &ConversionError{
			Kind: KindDiskFull,
			Err:  fmt.Errorf("%w: %s available, %s required", ErrDiskFull, humanize.IBytes(free), humanize.IBytes(need)),
		}
	}
	return nil
}

func asConversionError(err error) *ConversionError {
	var convErr *ConversionError
	if errors.As(err, &convErr) {
		return convErr
	}
	return &ConversionError{Kind: KindUnknown, Err: err}
}

func hintFor(kind FailureKind) string {
	switch kind {
	case KindCorruptedInput, KindDecodeError:
		return "re-export or re-download the source file"
	case KindPermissionDenied:
		return "check read access to the source and write access to the output directory"
	case KindMissingInput:
		return "the file moved or was deleted after the check"
	case KindUnsupportedCodec:
		return "install an ffmpeg build with the required codecs and libsoxr"
	case KindResourceExhausted:
		return "reduce --workers or free memory"
	case KindDiskFull:
		return "free disk space or choose another --output-dir"
	case KindTimeout:
		return "raise convert.timeout_seconds for very long files"
	case KindVerificationFailed:
		return "inspect the output with ffprobe; the ffmpeg build may ignore -ar"
	default:
		return "run with --log-level debug to see the ffmpeg command"
	}
}

func resolutionLabel(plan planner.ConversionPlan) string {
	return fmt.Sprintf("%dbit/%.1fkHz", plan.TargetBitDepth, float64(plan.TargetSampleRate)/1000)
}

func (t *Transcoder) logger() *slog.Logger {
	if t.Logger == nil {
		return logging.NewNop()
	}
	return t.Logger
}
