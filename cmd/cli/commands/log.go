package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/TenaciousPub/Challenge/pkg/core/services"
)

// LogCmd creates the log command
func LogCmd(app *AppContext) *cobra.Command {
	var in services.LogInput

	cmd := &cobra.Command{
		Use:   "log <participant_id> <amount>",
		Short: "Record exercise for a participant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("amount must be a number: %w", err)
			}
			in.ParticipantID = args[0]
			in.Amount = amount

			entry, err := app.LogBook.Record(app.Ctx, in)
			if err != nil {
				return userError(err)
			}

			target := "legacy target"
			if entry.ChallengeID != "" {
				target = entry.ChallengeID
			}
			success("Logged %d (+%d bonus) for %s on %s against %s", entry.Amount, entry.Bonus, entry.ParticipantID, entry.Date, target)
			return nil
		},
	}

	cmd.Flags().IntVar(&in.Bonus, "bonus", 0, "Bonus amount")
	cmd.Flags().StringVar(&in.ChallengeID, "challenge", "", "Challenge ID (defaults to the participant's default challenge)")
	cmd.Flags().StringVar(&in.Day, "date", "", "Day to log against (YYYY-MM-DD, defaults to the participant's today)")
	cmd.Flags().StringVar(&in.Note, "note", "", "Free-text note")

	return cmd
}
