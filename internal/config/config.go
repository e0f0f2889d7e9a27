// Package config loads service settings from the environment and .env files.
//
// Precedence, highest first: command-line flags (applied by the caller),
// process environment, .env files, defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/warwickbarbell/blackboards/internal/repository"
	"github.com/warwickbarbell/blackboards/internal/roles"
)

// Defaults
const (
	DefaultPort        = 8000
	DefaultDatabaseURL = "blackboards.db"
	DefaultSMTPHost    = "smtp.gmail.com"
	DefaultSMTPPort    = 587
)

// Config holds every setting of the service
type Config struct {
	Port         int
	DatabaseType string
	DatabaseURL  string
	LogLevel     string
	LogFormat    string

	// TieBreakVoterID is the voter whose ballot settles ties at the seat cutoff
	TieBreakVoterID int

	ElectionAdmins   []int
	TaskmasterAdmins []int
	Members          []int

	ConsumerKey    string
	ConsumerSecret string
	BaseURL        string

	SendEmails  bool
	SMTPHost    string
	SMTPPort    int
	FromAddress string
	FromName    string
	AppPassword string
}

// Load reads the given .env files (".env" when none are named), then builds
// the configuration from the environment. Missing .env files are ignored;
// variables already set in the environment win over the files.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds the configuration from a variable lookup function
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		DatabaseType:   get("DATABASE_TYPE", repository.DriverSQLite),
		DatabaseURL:    get("DATABASE_URL", DefaultDatabaseURL),
		LogLevel:       get("LOG_LEVEL", "info"),
		LogFormat:      get("LOG_FORMAT", "text"),
		ConsumerKey:    get("CONSUMER_KEY", ""),
		ConsumerSecret: get("CONSUMER_SECRET", ""),
		BaseURL:        strings.TrimSuffix(get("BASE_URL", ""), "/"),
		SMTPHost:       get("SMTP_HOST", DefaultSMTPHost),
		FromAddress:    get("FROM_ADDRESS", ""),
		FromName:       get("FROM_NAME", "Warwick Barbell"),
		AppPassword:    get("APP_PASSWORD", ""),
	}

	var err error
	if cfg.Port, err = atoi("PORT", get("PORT", strconv.Itoa(DefaultPort))); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = atoi("SMTP_PORT", get("SMTP_PORT", strconv.Itoa(DefaultSMTPPort))); err != nil {
		return nil, err
	}
	if cfg.TieBreakVoterID, err = atoi("TIE_BREAK_VOTER_ID", get("TIE_BREAK_VOTER_ID", "0")); err != nil {
		return nil, err
	}

	lists := []struct {
		key string
		dst *[]int
	}{
		{"ELECTION_ADMINS", &cfg.ElectionAdmins},
		{"TASKMASTER_ADMINS", &cfg.TaskmasterAdmins},
		{"BARBELL_MEMBERS", &cfg.Members},
	}
	for _, l := range lists {
		ids, err := roles.ParseIDList(get(l.key, ""))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", l.key, err)
		}
		*l.dst = ids
	}

	switch strings.ToLower(get("SEND_EMAILS", "")) {
	case "", "0", "false", "no", "off":
		cfg.SendEmails = false
	default:
		cfg.SendEmails = true
	}

	return cfg, nil
}

func atoi(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, value)
	}
	return n, nil
}

// Validate reports the first setting that cannot work
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.DatabaseType != repository.DriverSQLite && c.DatabaseType != repository.DriverPostgres {
		return fmt.Errorf("DATABASE_TYPE must be %q or %q, got %q", repository.DriverSQLite, repository.DriverPostgres, c.DatabaseType)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if f := strings.ToLower(c.LogFormat); f != "text" && f != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.SendEmails {
		if c.FromAddress == "" || c.AppPassword == "" {
			return errors.New("SEND_EMAILS needs FROM_ADDRESS and APP_PASSWORD")
		}
		if c.SMTPPort < 1 || c.SMTPPort > 65535 {
			return fmt.Errorf("SMTP port %d out of range", c.SMTPPort)
		}
	}
	return nil
}

// SSOEnabled reports whether websignon credentials are configured
func (c *Config) SSOEnabled() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != ""
}

// Roles builds the role checker from the configured id lists
func (c *Config) Roles() *roles.Static {
	return roles.NewStatic(map[roles.Role][]int{
		roles.Member:          c.Members,
		roles.ElectionAdmin:   c.ElectionAdmins,
		roles.TaskmasterAdmin: c.TaskmasterAdmins,
	})
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
