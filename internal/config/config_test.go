package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

// noEnvFile points Load at a file that does not exist
func noEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil, noEnvFile(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.DBPath != "tourney.db" {
		t.Errorf("expected db tourney.db, got %q", cfg.DBPath)
	}
	if cfg.RateLimit != 20 || cfg.RateBurst != 40 {
		t.Errorf("unexpected rate limit defaults: %v/%d", cfg.RateLimit, cfg.RateBurst)
	}
	if cfg.BackupSchedule != "" {
		t.Errorf("expected backups unscheduled, got %q", cfg.BackupSchedule)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("expected addr :8080, got %q", cfg.Addr())
	}
}

func TestLoad_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("TRACKER_PORT", "9000")
	t.Setenv("TRACKER_LOG_FORMAT", "json")
	t.Setenv("TRACKER_BASE_URL", "http://scores.local/")
	t.Setenv("TRACKER_BACKUP_SCHEDULE", "@daily")

	cfg, err := Load(nil, noEnvFile(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("expected json format, got %q", cfg.LogFormat)
	}
	if cfg.BaseURL != "http://scores.local" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
	if cfg.BackupSchedule != "@daily" {
		t.Errorf("expected @daily schedule, got %q", cfg.BackupSchedule)
	}
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("TRACKER_PORT", "9000")

	cfg, err := Load([]string{"-port", "9100", "-db", "league.db", "-ratelimit", "0"}, noEnvFile(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 9100 {
		t.Errorf("expected flag port 9100, got %d", cfg.Port)
	}
	if cfg.DBPath != "league.db" {
		t.Errorf("expected league.db, got %q", cfg.DBPath)
	}
	if cfg.RateLimit != 0 {
		t.Errorf("expected rate limiting disabled, got %v", cfg.RateLimit)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TRACKER_BACKUP_KEEP=3\nTRACKER_LOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	// godotenv writes straight into the process environment
	t.Cleanup(func() {
		os.Unsetenv("TRACKER_BACKUP_KEEP")
		os.Unsetenv("TRACKER_LOG_LEVEL")
	})

	cfg, err := Load(nil, path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.BackupKeep != 3 {
		t.Errorf("expected keep 3 from .env, got %d", cfg.BackupKeep)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug from .env, got %q", cfg.LogLevel)
	}
}

func TestLoad_BadEnvironmentValue(t *testing.T) {
	t.Setenv("TRACKER_PORT", "eighty")

	if _, err := Load(nil, noEnvFile(t)); err == nil {
		t.Error("expected error for non-numeric port")
	}
}

func TestLoad_Help(t *testing.T) {
	_, err := Load([]string{"-help"}, noEnvFile(t))
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("expected flag.ErrHelp, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{Port: 8080, DBPath: "x.db", LogLevel: "info", LogFormat: "text", RateLimit: 1, RateBurst: 1}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"port zero", func(c *Config) { c.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
		{"empty db path", func(c *Config) { c.DBPath = "" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"negative rate", func(c *Config) { c.RateLimit = -1 }, true},
		{"negative burst", func(c *Config) { c.RateBurst = -1 }, true},
		{"negative keep", func(c *Config) { c.BackupKeep = -1 }, true},
		{"cron schedule", func(c *Config) { c.BackupSchedule = "0 3 * * *" }, false},
		{"bad cron schedule", func(c *Config) { c.BackupSchedule = "every night" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
