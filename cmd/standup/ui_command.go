package main

import (
	"github.com/spf13/cobra"
	"github.com/xrehpicx/standup/internal/tui"
)

func newUICommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Browse and play the meeting library interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			return tui.Run(settings, st)
		},
	}
}
