package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/warwickbarbell/blackboards/internal/models"
)

func (c *cli) newTallyCmd() *cobra.Command {
	var (
		apply    bool
		tieBreak int
	)

	tallyCmd := &cobra.Command{
		Use:   "tally",
		Short: "Count every position and print the winners",
		Long: "Count every position with Meek STV and print the winners.\n" +
			"Nothing is recorded unless --apply is given, in which case the winners of\n" +
			"closed positions are marked elected and notified.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open()
			if err != nil {
				return err
			}
			defer a.Close()

			voter := c.cfg.TieBreakVoterID
			if cmd.Flags().Changed("tie-break") {
				voter = tieBreak
			}

			var results []models.TallyResult
			if apply {
				results, err = a.Results().ComputeResults(cmd.Context(), voter)
			} else {
				results, err = a.Results().PreviewResults(cmd.Context(), voter)
			}
			if err != nil {
				return err
			}
			formatResults(cmd.OutOrStdout(), results)
			return nil
		},
	}

	tallyCmd.Flags().BoolVar(&apply, "apply", false, "Mark winners of closed positions as elected")
	tallyCmd.Flags().IntVar(&tieBreak, "tie-break", 0, "Voter whose ballot breaks ties (defaults to TIE_BREAK_VOTER_ID)")
	return tallyCmd
}

// formatResults writes one block per position, winners in tally order
func formatResults(w io.Writer, results []models.TallyResult) {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}

		status := "closed"
		if r.Open {
			status = "open"
		}
		fmt.Fprintf(w, "%s (%s, %s)\n", r.Title, status, ballotCount(r.VoterCount))
		fmt.Fprintln(w, strings.Repeat("-", len(r.Title)))

		if r.Error != "" {
			fmt.Fprintf(w, "  error: %s\n", r.Error)
			continue
		}
		if len(r.Winners) == 0 {
			fmt.Fprintln(w, "  no winners")
			continue
		}
		for _, winner := range r.Winners {
			fmt.Fprintf(w, "  %-5s %s (%d)\n", humanize.Ordinal(winner.Rank+1), winner.Name, winner.CandidateID)
		}
	}
}

func ballotCount(n int) string {
	if n == 1 {
		return "1 ballot"
	}
	return humanize.Comma(int64(n)) + " ballots"
}
