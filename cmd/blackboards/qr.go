package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func (c *cli) newQRCmd() *cobra.Command {
	var (
		output string
		size   int
	)

	qrCmd := &cobra.Command{
		Use:   "qr <position-id>",
		Short: "Write a QR code linking to a position's ballot",
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

			png, err := a.Positions().BallotQRCode(cmd.Context(), positionID, size)
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("position-%d.png", positionID)
			}
			if err := os.WriteFile(output, png, 0o644); err != nil {
				return err
			}
			link, _ := a.Positions().BallotLink(cmd.Context(), positionID)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s) for %s\n", output, humanize.Bytes(uint64(len(png))), link)
			return nil
		},
	}

	qrCmd.Flags().StringVarP(&output, "output", "o", "", "PNG file to write (default position-<id>.png)")
	qrCmd.Flags().IntVar(&size, "size", 512, "Image size in pixels")
	return qrCmd
}
