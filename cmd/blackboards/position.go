package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/warwickbarbell/blackboards/internal/models"
)

func (c *cli) newPositionCmd() *cobra.Command {
	positionCmd := &cobra.Command{
		Use:   "position",
		Short: "Manage committee positions and nominations",
	}
	positionCmd.AddCommand(
		c.newPositionListCmd(),
		c.newPositionCreateCmd(),
		c.newPositionNominateCmd(),
		c.newPositionToggleCmd(),
	)
	return positionCmd
}

func (c *cli) newPositionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open()
			if err != nil {
				return err
			}
			defer a.Close()

			positions, err := a.Positions().ListPositions(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tSEATS\tVOTING")
			for _, p := range positions {
				voting := "closed"
				if p.Open {
					voting = "open"
				}
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", p.ID, p.Title, p.NumWinners, voting)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) newPositionCreateCmd() *cobra.Command {
	var position models.ExecPosition

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a position, closed for voting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Positions().CreatePosition(cmd.Context(), position); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created position %d %q\n", position.ID, position.Title)
			return nil
		},
	}

	createCmd.Flags().IntVar(&position.ID, "id", 0, "Position id")
	createCmd.Flags().StringVar(&position.Title, "title", "", "Position title")
	createCmd.Flags().IntVar(&position.NumWinners, "seats", 1, "Number of seats to fill")
	createCmd.MarkFlagRequired("id")
	createCmd.MarkFlagRequired("title")
	return createCmd
}

func (c *cli) newPositionNominateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nominate <position-id> <warwick-id> <name>",
		Short: "Stand a candidate for a position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			positionID, err := parseID("position id", args[0])
			if err != nil {
				return err
			}
			warwickID, err := parseID("warwick id", args[1])
			if err != nil {
				return err
			}

			a, err := c.open()
			if err != nil {
				return err
			}
			defer a.Close()

			candidate := models.Candidate{WarwickID: warwickID, Name: args[2]}
			return a.Positions().Nominate(cmd.Context(), positionID, candidate)
		},
	}
}

func (c *cli) newPositionToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <position-id>",
		Short: "Open or close voting for a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			positionID, err := parseID("position id", args[0])
			if err != nil {
				return err
			}

			a, err := c.open()
			if err != nil {
				return err
			}
			defer a.Close()

			open, err := a.Positions().TogglePosition(cmd.Context(), positionID)
			if err != nil {
				return err
			}
			state := "closed"
			if open {
				state = "open"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "voting for position %d is now %s\n", positionID, state)
			return nil
		},
	}
}

func parseID(name, raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", name, raw)
	}
	return id, nil
}
