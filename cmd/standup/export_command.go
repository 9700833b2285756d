package main

import (
	"github.com/spf13/cobra"
	"github.com/xrehpicx/standup/internal/library"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "export <meeting>",
		Short: "Write outcome files, playlist, waveforms, and tags for a meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			meeting, err := ctx.resolveMeeting(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			exporter := library.NewExporter(settings, progressPrinter(cmd, verbose))
			return exporter.Export(meeting)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show per-file progress")
	return cmd
}
