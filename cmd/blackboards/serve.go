package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/warwickbarbell/blackboards/internal/browser"
)

func (c *cli) newServeCmd() *cobra.Command {
	var (
		openBrowser bool
		httpLog     bool
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the elections HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if httpLog {
				c.log.EnableHTTPLogging()
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if openBrowser {
				if err := browser.Open(a.BaseURL()); err != nil {
					c.log.Warn("Could not open browser", "url", a.BaseURL(), "error", err)
				}
			}
			return a.Run(ctx)
		},
	}

	serveCmd.Flags().BoolVar(&openBrowser, "open", false, "Open the service in the desktop browser once started")
	serveCmd.Flags().BoolVar(&httpLog, "http-log", false, "Log every HTTP request")
	return serveCmd
}
