package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"cdjready/internal/compat"
	"cdjready/internal/config"
	"cdjready/internal/convert"
	"cdjready/internal/fileutil"
	"cdjready/internal/logging"
	"cdjready/internal/metrics"
	"cdjready/internal/planner"
	"cdjready/internal/profiles"
	"cdjready/internal/services"
	"cdjready/internal/textutil"
)

// errConversionsFailed makes the process exit non-zero after the report has
// been printed.
var errConversionsFailed = errors.New("one or more conversions failed")

type convertOptions struct {
	outputDir         string
	workers           int
	format            string
	sampleRate        int
	bitDepth          int
	maxQuality        bool
	includeCompatible bool
	jsonOutput        bool
	metricsFile       string
}

type convertReport struct {
	RunID    string            `json:"run_id"`
	Profile  string            `json:"profile"`
	Outcomes []convert.Outcome `json:"outcomes"`
	Summary  convert.Summary   `json:"summary"`
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert <path>...",
		Short: "Convert files the selected deck cannot play",
		Long: "Check every audio file under the given paths and convert the ones that need it.\n" +
			"By default each file gets the best plan for the device; --format/--sample-rate/\n" +
			"--bit-depth or --max-quality apply one target to every file instead.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, ctx, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Write converted files here (default: CDJ_Ready next to each source)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Parallel conversions (1-4)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Force an output format: WAV, AIFF or FLAC")
	cmd.Flags().IntVar(&opts.sampleRate, "sample-rate", 0, "Force an output sample rate (44100, 48000, 88200, 96000)")
	cmd.Flags().IntVar(&opts.bitDepth, "bit-depth", 0, "Force an output bit depth (16 or 24)")
	cmd.Flags().BoolVar(&opts.maxQuality, "max-quality", false, "Convert everything to the highest WAV resolution the deck accepts")
	cmd.Flags().BoolVar(&opts.includeCompatible, "include-compatible", false, "Also copy already compatible files into the output directory")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Emit outcomes as JSON")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile when done")
	return cmd
}

func runConvert(cmd *cobra.Command, ctx *commandContext, args []string, opts convertOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if err := applyConvertFlags(cmd, cfg, opts); err != nil {
		return err
	}
	profile, err := ctx.profile()
	if err != nil {
		return err
	}
	override, err := overridePlan(cmd, opts, profile)
	if err != nil {
		return err
	}

	recorder := metrics.New()
	results, profile, err := runCheck(cmd, ctx, args, recorder)
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	jobs := convert.JobsFromResults(results, override)
	var compatible []compat.Result
	if cfg.Convert.IncludeCompatible {
		for _, r := range results {
			if r.IsCompatible() {
				compatible = append(compatible, r)
			}
		}
	}
	if len(jobs) == 0 && len(compatible) == 0 {
		if opts.jsonOutput {
			return writeJSON(cmd, convertReport{RunID: ctx.runID, Profile: profile.ID, Outcomes: []convert.Outcome{}, Summary: convert.Summarize(nil)})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Nothing to convert: %d file(s) checked for %s\n", len(results), profile.Name)
		return nil
	}

	sources := make([]string, 0, len(jobs)+len(compatible))
	for _, job := range jobs {
		sources = append(sources, job.Source)
	}
	for _, r := range compatible {
		sources = append(sources, r.Path)
	}
	outputDirs := convert.OutputDirs(sources, cfg.Convert.OutputDir)
	lock, err := convert.LockDirs(outputDirs)
	if err != nil {
		logging.ErrorWithContext(logger, "output directory unavailable", "output_lock_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "wait for the other cdjready run to finish or choose another --output-dir"),
			logging.String(logging.FieldImpact, "no files were converted"),
		)
		return services.Wrap(services.ErrValidation, "convert", "lock", "", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release output lock", logging.Error(err))
		}
	}()
	for _, dir := range outputDirs {
		convert.CleanPartials(dir, cfg.Convert.OutputSuffix, logger)
	}

	runCtx := services.WithStage(ctx.runContext(cmd), "convert")
	transcoder := convert.NewTranscoder(cfg, logger)
	pool := convert.NewPool(cfg, transcoder, recorder, logger)

	bar := newProgressBar(cmd.ErrOrStderr(), len(jobs), opts.jsonOutput)
	outcomes := pool.Run(runCtx, jobs, func(done, total int) {
		if bar != nil {
			_ = bar.Set(done)
		}
	})
	if bar != nil {
		_ = bar.Finish()
	}
	outcomes = append(outcomes, transcoder.CopyCompatible(runCtx, compatible)...)

	if opts.metricsFile != "" {
		if err := recorder.WriteTextfile(opts.metricsFile); err != nil {
			logging.WarnWithContext(logger, "metrics textfile not written", "metrics_write_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check that the --metrics-file directory is writable"),
				logging.String(logging.FieldImpact, "metrics for this run are lost"),
			)
		}
	}

	summary := convert.Summarize(outcomes)
	if opts.jsonOutput {
		if err := writeJSON(cmd, convertReport{RunID: ctx.runID, Profile: profile.ID, Outcomes: outcomes, Summary: summary}); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderOutcomes(outcomes))
		printConvertSummary(out, summary, cfg.Convert.OutputDir)
	}

	if err := runCtx.Err(); err != nil {
		return err
	}
	if summary.HasFailures() {
		return errConversionsFailed
	}
	return nil
}

func applyConvertFlags(cmd *cobra.Command, cfg *config.Config, opts convertOptions) error {
	if cmd.Flags().Changed("output-dir") {
		dir, err := config.ExpandPath(strings.TrimSpace(opts.outputDir))
		if err != nil {
			return services.Wrap(services.ErrValidation, "convert", "output-dir", "", err)
		}
		cfg.Convert.OutputDir = dir
	}
	if cmd.Flags().Changed("workers") {
		cfg.Convert.Workers = config.ClampRequestedWorkers(opts.workers)
	}
	if opts.includeCompatible {
		cfg.Convert.IncludeCompatible = true
	}
	return nil
}

// overridePlan turns the custom target flags into a single plan, or nil when
// every file should get its own plan.
func overridePlan(cmd *cobra.Command, opts convertOptions, profile profiles.DeviceProfile) (*planner.ConversionPlan, error) {
	custom := cmd.Flags().Changed("format") || cmd.Flags().Changed("sample-rate") || cmd.Flags().Changed("bit-depth")
	switch {
	case custom && opts.maxQuality:
		return nil, services.Wrap(services.ErrValidation, "convert", "flags", "--max-quality cannot be combined with --format/--sample-rate/--bit-depth", nil)
	case opts.maxQuality:
		plan := planner.MaxQuality(profile.Limits())
		return &plan, nil
	case custom:
		settings := planner.Settings{
			Format:     textOr(opts.format, string(planner.OutputFormats[0])),
			SampleRate: intOr(opts.sampleRate, planner.DefaultSampleRate),
			BitDepth:   intOr(opts.bitDepth, planner.DefaultBitDepth),
		}
		plan, err := planner.Custom(settings, profile)
		if err != nil {
			return nil, err
		}
		return &plan, nil
	}
	return nil, nil
}

func newProgressBar(w io.Writer, total int, quiet bool) *progressbar.ProgressBar {
	if quiet || total == 0 {
		return nil
	}
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Converting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

func renderOutcomes(outcomes []convert.Outcome) string {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		icon := textutil.Ternary(o.Success, "✓", "✕")
		output := "-"
		if o.Output != "" {
			output = filepath.Base(o.Output)
		}
		rows = append(rows, []string{icon, filepath.Base(o.Source), output, o.Message})
	}
	return renderTable(
		[]string{"", "File", "Output", "Result"},
		rows,
		tableOptions{maxWidth: map[int]int{1: 40, 2: 40, 3: 60}},
	)
}

func printConvertSummary(out io.Writer, summary convert.Summary, outputDir string) {
	fmt.Fprintf(out, "Converted %d of %d file(s)", summary.Successful-summary.Copied, summary.Total-summary.Copied)
	if summary.Copied > 0 {
		fmt.Fprintf(out, ", copied %d compatible file(s)", summary.Copied)
	}
	if summary.Failed > 0 {
		fmt.Fprintf(out, ", %d failed", summary.Failed)
	}
	fmt.Fprintln(out)
	if outputDir != "" {
		if free, err := fileutil.FreeBytes(outputDir); err == nil {
			fmt.Fprintf(out, "Output: %s (%s free)\n", outputDir, humanize.IBytes(free))
		}
	}
}

func textOr(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func intOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
