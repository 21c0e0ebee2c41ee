package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TenaciousPub/Challenge/pkg/core/dayoff"
	"github.com/TenaciousPub/Challenge/pkg/core/model"
	"github.com/TenaciousPub/Challenge/pkg/core/report"
)

// DayOffCmd creates the dayoff command group
func DayOffCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dayoff",
		Short: "Request and vote on cohort days off",
	}

	cmd.AddCommand(dayOffRequestCmd(app))
	cmd.AddCommand(dayOffVoteCmd(app))
	cmd.AddCommand(dayOffResetCmd(app))
	cmd.AddCommand(dayOffStatusCmd(app))
	cmd.AddCommand(dayOffListCmd(app))

	return cmd
}

func dayOffRequestCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "request <participant_id> <target_day> [reason...]",
		Short: "Open a vote for a day off",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deadline := app.Now().Add(app.Cfg.VotingWindow())
			req, err := app.Book.CreateRequest(app.Ctx, args[0], args[1], strings.Join(args[2:], " "), deadline)
			if err != nil {
				return userError(err)
			}
			success("Request %s opened for %s (%d ballots, closes %s)",
				req.ID, req.TargetDay, len(req.Ballots), req.Deadline.Format("Jan 02 15:04 MST"))
			return nil
		},
	}
}

func dayOffVoteCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "vote <request_id> <participant_id> <yes|no>",
		Short: "Cast a pending ballot",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Book.RegisterVote(app.Ctx, args[0], args[1], args[2]); err != nil {
				return userError(err)
			}
			return printVoteState(app, args[0])
		},
	}
}

func dayOffResetCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <request_id> <participant_id>",
		Short: "Return a ballot to pending so it can be cast again",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Book.ResetBallot(app.Ctx, args[0], args[1]); err != nil {
				return userError(err)
			}
			return printVoteState(app, args[0])
		},
	}
}

func dayOffStatusCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <request_id>",
		Short: "Show the tally for a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printVoteState(app, args[0])
		},
	}
}

func dayOffListCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every day-off request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			requests := app.Book.List()
			if len(requests) == 0 {
				fmt.Println(dimStyle.Render("No day-off requests."))
				return nil
			}
			for _, req := range requests {
				state, err := app.Book.State(req.ID)
				if err != nil {
					return err
				}
				fmt.Printf("%s  %s  %-8s yes %d / no %d  %s\n",
					req.ID, req.TargetDay, stateLabel(state.State), state.Yes, state.No, dimStyle.Render(req.Reason))
			}
			return nil
		},
	}
}

func printVoteState(app *AppContext, requestID string) error {
	state, err := app.Book.State(requestID)
	if err != nil {
		return userError(err)
	}
	req, err := app.Book.Request(requestID)
	if err != nil {
		return userError(err)
	}

	fmt.Println(report.VoteStatus(state))

	voters := make([]string, 0, len(req.Ballots))
	for id := range req.Ballots {
		voters = append(voters, id)
	}
	sort.Strings(voters)
	for _, id := range voters {
		fmt.Printf("  %-20s %s\n", id, ballotLabel(req.Ballots[id].Vote))
	}
	return nil
}

func stateLabel(s dayoff.State) string {
	switch s {
	case dayoff.StateApproved:
		return successStyle.Render(string(s))
	case dayoff.StateRejected:
		return failStyle.Render(string(s))
	}
	return dimStyle.Render(string(s))
}

func ballotLabel(v model.VoteValue) string {
	switch v {
	case model.VoteYes:
		return successStyle.Render("yes")
	case model.VoteNo:
		return failStyle.Render("no")
	}
	return dimStyle.Render("pending")
}
