package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// ModeCmd creates the mode command
func ModeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mode",
		Short: "Show the compliance mode and points target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Compliance mode: %s\nPoints target:   %d\n",
				titleStyle.Render(string(app.Settings.Mode(app.Ctx))), app.Settings.PointsTarget(app.Ctx))
			return nil
		},
	}
}

// SetModeCmd creates the setMode command
func SetModeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setMode <strict|lenient|points>",
		Short: "Change how multi-challenge days are judged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := app.Settings.SetMode(app.Ctx, args[0])
			if err != nil {
				return err
			}
			success("Compliance mode set to %s", mode)
			return nil
		},
	}
}

// SetPointsTargetCmd creates the setPointsTarget command
func SetPointsTargetCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setPointsTarget <n>",
		Short: "Change the number of met challenges points mode requires",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("points target must be a number: %w", err)
			}
			target, err := app.Settings.SetPointsTarget(app.Ctx, n)
			if err != nil {
				return err
			}
			success("Points target set to %d", target)
			return nil
		},
	}
}
