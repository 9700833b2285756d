package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/xrehpicx/standup/internal/audio"
	"github.com/xrehpicx/standup/internal/playback"
)

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var recordingFlag int

	cmd := &cobra.Command{
		Use:   "play <meeting>",
		Short: "Play a meeting recording in the terminal",
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
			if len(meeting.Recordings) == 0 {
				return fmt.Errorf("meeting %q has no recordings", meeting.Title)
			}
			if recordingFlag < 1 || recordingFlag > len(meeting.Recordings) {
				return fmt.Errorf("recording index %d out of range 1-%d", recordingFlag, len(meeting.Recordings))
			}
			rec := meeting.Recordings[recordingFlag-1]

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			coord := playback.NewCoordinator(func() (playback.Element, error) {
				return audio.NewOutput()
			})
			defer coord.Shutdown()

			events := make(chan playback.Event, 64)
			player := playback.NewPlayer(coord, rec.Path, func(event playback.Event) {
				select {
				case events <- event:
				default:
				}
			}, playback.Options{
				ReadyTimeout:     settings.ReadyTimeout(),
				ReportInterval:   settings.ReportInterval(),
				PositionThrottle: settings.PositionThrottle(),
			})
			defer player.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Playing %s / %s\n", meeting.Title, rec.Title)
			if err := player.Play(); err != nil {
				return err
			}

			duration := rec.DurationTime()
			tty := stdoutIsTerminal()
			for {
				select {
				case <-signalCtx.Done():
					if tty {
						fmt.Fprintln(cmd.OutOrStdout())
					}
					return nil
				case event := <-events:
					switch event.Kind {
					case playback.EventDuration:
						duration = event.Duration
					case playback.EventPosition:
						if tty {
							fmt.Fprintf(cmd.OutOrStdout(), "\r%s / %s ",
								formatClock(event.Position), formatClock(duration))
						}
					case playback.EventNotice:
						if tty {
							fmt.Fprintln(cmd.OutOrStdout())
						}
						return event.Err
					case playback.EventIntent:
						if !event.Playing {
							if tty {
								fmt.Fprintln(cmd.OutOrStdout())
							}
							return nil
						}
					}
				}
			}
		},
	}

	cmd.Flags().IntVarP(&recordingFlag, "recording", "r", 1, "Recording index within the meeting")
	return cmd
}

func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
