// Package config loads server settings from defaults, an optional .env file,
// TRACKER_* environment variables and command-line flags, in that order of
// increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/abrezinsky/tourneytracker/internal/services"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "TRACKER_"

// Config holds the server configuration
type Config struct {
	Port      int    `env:"PORT" envDefault:"8080"`
	DBPath    string `env:"DB_PATH" envDefault:"tourney.db"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	HTTPLog   bool   `env:"HTTP_LOG"`

	// BaseURL is the public address used in QR codes. Detected from the LAN
	// address when empty.
	BaseURL string `env:"BASE_URL"`

	// Mutating requests per second; 0 disables limiting
	RateLimit float64 `env:"RATE_LIMIT" envDefault:"20"`
	RateBurst int     `env:"RATE_BURST" envDefault:"40"`

	BackupSchedule string `env:"BACKUP_SCHEDULE"`
	BackupDir      string `env:"BACKUP_DIR" envDefault:"backups"`
	BackupKeep     int    `env:"BACKUP_KEEP" envDefault:"14"`

	// NoKeyboard disables single-key console shortcuts
	NoKeyboard bool `env:"NO_KEYBOARD"`

	// Flag only
	ShowVersion bool
}

// Load reads configuration for the given command-line arguments (without the
// program name). envFiles default to ".env"; missing files are ignored.
func Load(args []string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fset := cfg.flagSet()
	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// flagSet binds flags onto cfg, using its current values as defaults
func (c *Config) flagSet() *flag.FlagSet {
	fset := flag.NewFlagSet("tourneytracker", flag.ContinueOnError)
	fset.IntVar(&c.Port, "port", c.Port, "HTTP server port")
	fset.StringVar(&c.DBPath, "db", c.DBPath, "SQLite database path")
	fset.StringVar(&c.LogLevel, "loglevel", c.LogLevel, "Log level (debug, info, warn, error)")
	fset.StringVar(&c.LogFormat, "logformat", c.LogFormat, "Log format (text, json)")
	fset.BoolVar(&c.HTTPLog, "httplog", c.HTTPLog, "Log every HTTP request")
	fset.StringVar(&c.BaseURL, "baseurl", c.BaseURL, "Public base URL for QR codes")
	fset.Float64Var(&c.RateLimit, "ratelimit", c.RateLimit, "Mutating requests per second (0 disables)")
	fset.IntVar(&c.RateBurst, "rateburst", c.RateBurst, "Rate limit burst size")
	fset.StringVar(&c.BackupSchedule, "backup-schedule", c.BackupSchedule, "Cron schedule for JSON backups (empty disables)")
	fset.StringVar(&c.BackupDir, "backup-dir", c.BackupDir, "Backup directory")
	fset.IntVar(&c.BackupKeep, "backup-keep", c.BackupKeep, "Number of backups to keep (0 keeps all)")
	fset.BoolVar(&c.NoKeyboard, "nokeyboard", c.NoKeyboard, "Disable keyboard shortcuts")
	fset.BoolVar(&c.ShowVersion, "version", false, "Show version and exit")
	fset.Usage = func() { usage(fset.Output(), fset) }
	return fset
}

func usage(w io.Writer, fset *flag.FlagSet) {
	fmt.Fprintf(w, `TourneyTracker - multi-team tournament scorekeeping

Usage:
  tourneytracker [options]

Every option can also be set through the environment as %s<NAME>,
for example %sPORT=9000, or in a .env file.

Options:
`, EnvPrefix, EnvPrefix)
	fset.PrintDefaults()
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DBPath == "" {
		return errors.New("database path is required")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return errors.New("rate limit values must not be negative")
	}
	if c.BackupKeep < 0 {
		return errors.New("backup keep must not be negative")
	}
	if c.BackupSchedule != "" {
		if err := services.ValidateSchedule(c.BackupSchedule); err != nil {
			return fmt.Errorf("invalid backup schedule %q: %w", c.BackupSchedule, err)
		}
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
