package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cdjready/internal/profiles"
	"cdjready/internal/services"
)

func newProfilesCommand() *cobra.Command {
	var jsonOutput bool
	var yamlOutput bool

	cmd := &cobra.Command{
		Use:         "profiles",
		Short:       "List supported device profiles",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := profiles.List()
			switch {
			case jsonOutput && yamlOutput:
				return services.Wrap(services.ErrValidation, "profiles", "flags", "choose one of --json or --yaml", nil)
			case jsonOutput:
				return writeJSON(cmd, list)
			case yamlOutput:
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(list); err != nil {
					return fmt.Errorf("encode yaml: %w", err)
				}
				return enc.Close()
			}

			rows := make([][]string, 0, len(list))
			for _, p := range list {
				id := p.ID
				if id == profiles.DefaultID {
					id += " *"
				}
				rows = append(rows, []string{
					id,
					p.Name,
					strconv.Itoa(p.Year),
					strings.Join(p.Formats, ", "),
					fmt.Sprintf("%.1f kHz", float64(p.MaxSampleRate)/1000),
					fmt.Sprintf("%d-bit", p.MaxBitDepth),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Name", "Year", "Formats", "Max Rate", "Max Depth"},
				rows,
				tableOptions{rightAligned: []int{2, 4, 5}},
			))
			fmt.Fprintln(out, "* default profile")
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit profiles as JSON")
	cmd.Flags().BoolVar(&yamlOutput, "yaml", false, "Emit profiles as YAML")
	return cmd
}
