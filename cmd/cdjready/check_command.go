package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cdjready/internal/check"
	"cdjready/internal/compat"
	"cdjready/internal/convert"
	"cdjready/internal/metrics"
	"cdjready/internal/profiles"
	"cdjready/internal/scan"
	"cdjready/internal/services"
)

type checkReport struct {
	RunID   string          `json:"run_id"`
	Profile string          `json:"profile"`
	Results []compat.Result `json:"results"`
	Summary check.Summary   `json:"summary"`
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Report whether audio files play on the selected deck",
		Long: "Probe every audio file under the given files or directories and report its\n" +
			"compatibility with the selected device profile. Files that fail to probe are\n" +
			"reported inline and do not change the exit status.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, profile, err := runCheck(cmd, ctx, args, nil)
			if err != nil {
				return err
			}
			summary := check.Summarize(results)
			if jsonOutput {
				return writeJSON(cmd, checkReport{
					RunID:   ctx.runID,
					Profile: profile.ID,
					Results: results,
					Summary: summary,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderResults(results))
			printCheckSummary(out, profile, summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit results as JSON")
	return cmd
}

// runCheck resolves tools, discovers files and evaluates them.
func runCheck(cmd *cobra.Command, ctx *commandContext, paths []string, recorder *metrics.Recorder) ([]compat.Result, profiles.DeviceProfile, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, profiles.DeviceProfile{}, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, profiles.DeviceProfile{}, err
	}
	profile, err := ctx.profile()
	if err != nil {
		return nil, profiles.DeviceProfile{}, err
	}
	runCtx := services.WithStage(ctx.runContext(cmd), "check")
	if err := ctx.resolveTools(runCtx); err != nil {
		return nil, profiles.DeviceProfile{}, err
	}

	files, err := scan.Collect(paths, convert.DefaultOutputDirName, cfg.Convert.OutputDir)
	if err != nil {
		return nil, profiles.DeviceProfile{}, err
	}
	svc := check.NewService(cfg, nil, recorder, logger)
	results, err := svc.Check(runCtx, files, profile)
	if err != nil {
		return nil, profiles.DeviceProfile{}, err
	}
	return results, profile, nil
}

func renderResults(results []compat.Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		meta := r.Metadata
		rows = append(rows, []string{
			r.Status.Icon() + " " + string(r.Status),
			meta.Filename,
			meta.CodecLabel(),
			meta.SampleRateLabel(),
			meta.BitDepthLabel(),
			meta.DurationLabel(),
			r.Message,
		})
	}
	return renderTable(
		[]string{"Status", "File", "Format", "Rate", "Depth", "Duration", "Message"},
		rows,
		tableOptions{rightAligned: []int{3, 4, 5}, maxWidth: map[int]int{1: 48, 6: 48}},
	)
}

func printCheckSummary(out io.Writer, profile profiles.DeviceProfile, summary check.Summary) {
	fmt.Fprintf(out, "Checked %d file(s) for %s\n", summary.Total, profile.Name)
	for _, status := range compat.Statuses {
		if n := summary.Count(status); n > 0 {
			fmt.Fprintf(out, "  %s %-21s %d\n", status.Icon(), status, n)
		}
	}
	if n := summary.NeedsConversion(); n > 0 {
		fmt.Fprintf(out, "Run `cdjready convert` to convert %d file(s)\n", n)
	}
}
