package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xrehpicx/standup/internal/model"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List meetings in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			meetings, err := st.ListMeetings(cmd.Context())
			if err != nil {
				return err
			}
			if len(meetings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No meetings. Run \"standup pull\" to sync from the workspace.")
				return nil
			}

			rows := make([][]string, 0, len(meetings))
			for i, meeting := range meetings {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					meeting.StartedAt.Format("2006-01-02"),
					meeting.Title,
					strings.Join(meeting.ParticipantNames(), ", "),
					strconv.Itoa(len(meeting.Recordings)),
					outcomeFlags(meeting),
				})
			}
			headers := []string{"#", "Date", "Title", "Participants", "Recordings", "Outcomes"}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(headers, rows))
			return nil
		},
	}
}

// outcomeFlags compacts outcome presence into a short column, e.g. "T S" for
// a meeting with a transcript and a summary but no action items.
func outcomeFlags(meeting *model.Meeting) string {
	var flags []string
	if meeting.Outcome(model.OutcomeTranscript) != nil {
		flags = append(flags, "T")
	}
	if meeting.Outcome(model.OutcomeSummary) != nil {
		flags = append(flags, "S")
	}
	if meeting.Outcome(model.OutcomeActionItems) != nil {
		flags = append(flags, "A")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, " ")
}
