package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cdjready/internal/config"
	"cdjready/internal/deps"
	"cdjready/internal/textutil"
)

type statusReport struct {
	ConfigPath   string        `json:"config_path"`
	ConfigExists bool          `json:"config_exists"`
	Profile      string        `json:"profile"`
	Dependencies []deps.Status `json:"dependencies"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration and external tool availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			profile, err := ctx.profile()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(ctx.runContext(cmd), []deps.Requirement{
				{Name: "FFmpeg", Command: cfg.FFmpegBinary(), EnvVar: config.EnvFFmpegPath, Description: "Audio conversion"},
				{Name: "FFprobe", Command: cfg.FFprobeBinary(), EnvVar: config.EnvFFprobePath, Description: "Metadata probing"},
			}, cfg.Binaries.BinDir)

			if jsonOutput {
				return writeJSON(cmd, statusReport{
					ConfigPath:   ctx.configPath,
					ConfigExists: ctx.configSeen,
					Profile:      profile.ID,
					Dependencies: statuses,
				})
			}

			out := cmd.OutOrStdout()
			configNote := ctx.configPath
			if !ctx.configSeen {
				configNote += " (not found, using defaults)"
			}
			fmt.Fprintf(out, "Config:  %s\n", configNote)
			fmt.Fprintf(out, "Profile: %s (%s)\n", profile.Name, profile.ID)

			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				detail := textutil.Ternary(s.Available, s.Version, s.Detail)
				rows = append(rows, []string{s.Name, yesNo(s.Available), s.Command, s.Source, detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Tool", "Available", "Command", "Source", "Detail"}, rows, tableOptions{maxWidth: map[int]int{4: 60}}))
			if len(deps.Missing(statuses)) > 0 {
				fmt.Fprintln(out, deps.InstallHint)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit status as JSON")
	return cmd
}
