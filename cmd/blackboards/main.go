// Command blackboards runs the club elections service and its admin tools.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warwickbarbell/blackboards/internal/app"
	"github.com/warwickbarbell/blackboards/internal/config"
	"github.com/warwickbarbell/blackboards/internal/logger"
	"github.com/warwickbarbell/blackboards/internal/repository"
)

// cli carries the state shared by every subcommand once the root command
// has loaded configuration.
type cli struct {
	envFile  string
	port     int
	dbType   string
	dbURL    string
	logLevel string
	logFmt   string

	cfg *config.Config
	log logger.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "blackboards",
		Short:         "Club committee elections with ranked ballots",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.envFile, "env-file", ".env", "Path to a .env file")
	flags.IntVarP(&c.port, "port", "p", config.DefaultPort, "Port to listen on")
	flags.StringVar(&c.dbType, "db-type", repository.DriverSQLite, "Database driver: sqlite3 or postgres")
	flags.StringVar(&c.dbURL, "db", config.DefaultDatabaseURL, "Database path or connection string")
	flags.StringVar(&c.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flags.StringVar(&c.logFmt, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(
		c.newServeCmd(),
		c.newTallyCmd(),
		c.newPositionCmd(),
		c.newQRCmd(),
	)
	return rootCmd
}

// load reads the environment, then lets explicitly set flags override it
func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load(c.envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = c.port
	}
	if flags.Changed("db-type") {
		cfg.DatabaseType = c.dbType
	}
	if flags.Changed("db") {
		cfg.DatabaseURL = c.dbURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = c.logFmt
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c.cfg = cfg
	c.log = logger.NewWithOptions(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})
	return nil
}

// open wires the application against the configured database
func (c *cli) open() (*app.App, error) {
	return app.New(c.log, c.cfg)
}
