package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TenaciousPub/Challenge/pkg/core/services"
	"github.com/TenaciousPub/Challenge/pkg/core/timezone"
)

// JoinCmd creates the join command
func JoinCmd(app *AppContext) *cobra.Command {
	var in services.JoinInput

	cmd := &cobra.Command{
		Use:   "join <participant_id>",
		Short: "Add a participant to the challenge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.ID = args[0]
			p, err := app.Roster.Join(app.Ctx, in, app.Now())
			if err != nil {
				return userError(err)
			}
			success("%s joined on %s (timezone %s)", p.DisplayName, p.JoinedOn, p.Timezone)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.DisplayName, "name", "", "Display name (defaults to the ID)")
	cmd.Flags().StringVar(&in.Gender, "gender", "", "male or female")
	cmd.Flags().StringVar(&in.Timezone, "timezone", "", "IANA timezone (defaults to the configured zone)")
	cmd.Flags().BoolVar(&in.Disabled, "disabled", false, "Use the disability target and accessible punishments")

	return cmd
}

// ProfileCmd creates the profile command
func ProfileCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile <participant_id>",
		Short: "Change a participant's name, gender, disability flag or timezone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd services.ProfileUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				v, _ := flags.GetString("name")
				upd.DisplayName = &v
			}
			if flags.Changed("gender") {
				v, _ := flags.GetString("gender")
				upd.Gender = &v
			}
			if flags.Changed("disabled") {
				v, _ := flags.GetBool("disabled")
				upd.Disabled = &v
			}
			if flags.Changed("timezone") {
				v, _ := flags.GetString("timezone")
				upd.Timezone = &v
			}

			p, err := app.Roster.UpdateProfile(app.Ctx, args[0], upd)
			if err != nil {
				return userError(err)
			}
			success("Updated %s: gender %q, disabled %t, timezone %s", p.DisplayName, p.Gender, p.Disabled, p.Timezone)
			return nil
		},
	}

	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("gender", "", "male or female (empty to unset)")
	cmd.Flags().Bool("disabled", false, "Disability flag")
	cmd.Flags().String("timezone", "", "IANA timezone")

	return cmd
}

// StatusCmd creates the status command
func StatusCmd(app *AppContext) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "status <participant_id>",
		Short: "Show a participant's compliance for a day (defaults to their today)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := app.Roster.Get(args[0])
			if !ok {
				return userError(fmt.Errorf("%w: %s", services.ErrUnknownParticipant, args[0]))
			}
			if day == "" {
				day = timezone.LocalDay(app.Now(), p.Timezone)
			}

			fmt.Println(renderVerdict(p.DisplayName, app.Engine.EvaluateParticipant(app.Ctx, p, day)))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day to evaluate (YYYY-MM-DD)")

	return cmd
}

// NormalizeTimezonesCmd creates the normalizeTimezones command
func NormalizeTimezonesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "normalizeTimezones",
		Short: "Rewrite every stored timezone in canonical IANA form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			total, changed, err := app.Roster.NormalizeTimezones(app.Ctx)
			if err != nil {
				return err
			}
			success("Normalized %d of %d participants", changed, total)
			return nil
		},
	}
}
