package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TenaciousPub/Challenge/pkg/core/services"
)

// ChallengeCmd creates the challenge command group
func ChallengeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "challenge",
		Short: "Manage a participant's challenges",
	}

	cmd.AddCommand(challengeAddCmd(app))
	cmd.AddCommand(challengeListCmd(app))
	cmd.AddCommand(challengeRemoveCmd(app))
	cmd.AddCommand(challengeDefaultCmd(app))

	return cmd
}

func challengeAddCmd(app *AppContext) *cobra.Command {
	var in services.AddChallengeInput

	cmd := &cobra.Command{
		Use:   "add <participant_id> <type> <daily_target>",
		Short: "Add a challenge",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("daily_target must be a number: %w", err)
			}
			in.ParticipantID = args[0]
			in.Type = args[1]
			in.DailyTarget = target

			ch, err := app.Challenges.AddChallenge(app.Ctx, in)
			if err != nil {
				return userError(err)
			}
			success("Added %s (%s): %d %s a day", ch.Type, ch.ID, ch.DailyTarget, ch.Unit)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Unit, "unit", "", "Unit (defaults to reps)")
	cmd.Flags().BoolVar(&in.SetDefault, "default", false, "Make this the participant's default challenge")

	return cmd
}

func challengeListCmd(app *AppContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list <participant_id>",
		Short: "List a participant's challenges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Challenges.ListChallenges(app.Ctx, args[0], !all)
			if err != nil {
				return userError(err)
			}
			if len(list) == 0 {
				fmt.Println(dimStyle.Render("No challenges."))
				return nil
			}

			defaultID, err := app.Challenges.ResolveDefaultChallenge(app.Ctx, args[0])
			if err != nil {
				return userError(err)
			}

			fmt.Println(titleStyle.Render("Challenges for " + args[0]))
			for _, ch := range list {
				var tags []string
				if ch.ID == defaultID {
					tags = append(tags, "default")
				}
				if !ch.Active {
					tags = append(tags, "inactive")
				}
				line := fmt.Sprintf("  %s  %-12s %d %s", ch.ID, ch.Type, ch.DailyTarget, ch.Unit)
				if len(tags) > 0 {
					line += dimStyle.Render(" (" + strings.Join(tags, ", ") + ")")
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include removed challenges")

	return cmd
}

func challengeRemoveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <participant_id> <challenge_id>",
		Short: "Deactivate a challenge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Challenges.RemoveChallenge(app.Ctx, args[0], args[1]); err != nil {
				return userError(err)
			}
			success("Removed %s", args[1])
			return nil
		},
	}
}

func challengeDefaultCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "default <participant_id> <challenge_id|none>",
		Short: "Set or clear the challenge untargeted logs count towards",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[1]
			if strings.EqualFold(id, "none") {
				id = ""
			}
			if err := app.Challenges.SetDefaultChallenge(app.Ctx, args[0], id); err != nil {
				return userError(err)
			}
			if id == "" {
				success("Cleared default challenge for %s", args[0])
			} else {
				success("%s is now the default for %s", id, args[0])
			}
			return nil
		},
	}
}
