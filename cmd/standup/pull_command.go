package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xrehpicx/standup/internal/library"
	"github.com/xrehpicx/standup/internal/model"
	"github.com/xrehpicx/standup/internal/storage"
)

func newPullCommand(ctx *commandContext) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "pull [meeting]",
		Short: "Sync meetings and recordings from the workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			if settings.WorkspaceURL == "" {
				return fmt.Errorf("workspace_url is not configured")
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			client := storage.NewClient(settings.WorkspaceURL, settings.WorkspaceToken)
			puller := library.NewPuller(settings, client, st, progressPrinter(cmd, verbose))
			if len(args) == 1 {
				// Re-fetch only the named meeting's recordings.
				meeting, err := ctx.resolveMeeting(signalCtx, args[0])
				if err != nil {
					return err
				}
				if err := puller.PullRecordings(signalCtx, []*model.Meeting{meeting}); err != nil {
					return err
				}
			} else if err := puller.Pull(signalCtx); err != nil {
				return err
			}

			done, total := puller.Progress()
			fmt.Fprintf(cmd.OutOrStdout(), "Pulled %d/%d recordings\n", done, total)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show per-file progress")
	return cmd
}

// progressPrinter prints library progress events with a level prefix,
// skipping verbose events unless requested.
func progressPrinter(cmd *cobra.Command, verbose bool) func(library.ProgressEvent) {
	return func(event library.ProgressEvent) {
		if event.Level == library.LevelVerbose && !verbose {
			return
		}
		prefix := "  "
		switch event.Level {
		case library.LevelError:
			prefix = "✗ "
		case library.LevelWarning:
			prefix = "! "
		case library.LevelSuccess:
			prefix = "✓ "
		case library.LevelInfo:
			prefix = "› "
		}
		fmt.Fprintln(cmd.OutOrStdout(), prefix+event.Message)
	}
}
