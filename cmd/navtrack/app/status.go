package app

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sfiharvest/navtrack/cmd/navtrack/app/options"
	"github.com/sfiharvest/navtrack/internal/navtrack/writer"
)

func newStatusCommand(opts *options.NavtrackOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize the display documents in the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := writer.Summaries(afero.NewOsFs(), opts.OutputOptions.Dir)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), statusTable(summaries))
			return err
		},
	}
}

func statusTable(summaries []writer.TrackSummary) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 40
	table.AddRow("VEHICLE", "NAME", "POINTS", "LONGITUDE", "LATITUDE", "DEPTH")
	for _, s := range summaries {
		if s.Last == nil {
			table.AddRow(s.ID, s.Name, s.Points, "-", "-", "-")
			continue
		}
		table.AddRow(s.ID, s.Name, s.Points,
			fmt.Sprintf("%.6f", s.Last[0]),
			fmt.Sprintf("%.6f", s.Last[1]),
			fmt.Sprintf("%.1f", s.Last[2]))
	}
	return table
}
