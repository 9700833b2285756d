package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xrehpicx/standup/internal/ai"
	"github.com/xrehpicx/standup/internal/library"
	"github.com/xrehpicx/standup/internal/model"
)

func newOutcomeCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "outcome <meeting>",
		Short: "Generate a transcript, summary, or action items for a meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := model.OutcomeKind(kindFlag)
			if !kind.Valid() {
				return fmt.Errorf("unknown outcome kind %q (want summary, action_items, or transcript)", kindFlag)
			}
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			meeting, err := ctx.resolveMeeting(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			service := library.NewOutcomeService(settings, ai.NewClient(settings.AIConfig()), st)
			outcome, err := service.Generate(signalCtx, meeting, kind)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome.Content)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindFlag, "kind", "k", string(model.OutcomeSummary), "Outcome kind: summary, action_items, or transcript")
	return cmd
}
