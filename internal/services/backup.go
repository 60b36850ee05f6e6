package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/abrezinsky/tourneytracker/internal/logger"
	"github.com/abrezinsky/tourneytracker/internal/models"
)

const (
	backupPrefix     = "tourneytracker-"
	backupSuffix     = ".json"
	backupTimeLayout = "20060102-150405.000"
)

// Exporter produces the snapshot written by a backup
type Exporter interface {
	Export(ctx context.Context) (*models.Snapshot, error)
}

// BackupService writes export snapshots to disk on demand or on a cron schedule
type BackupService struct {
	log      logger.Logger
	exporter Exporter
	dir      string
	keep     int
	now      func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

// NewBackupService creates a new BackupService. keep <= 0 keeps every file.
func NewBackupService(log logger.Logger, exporter Exporter, dir string, keep int) *BackupService {
	return &BackupService{
		log:      log,
		exporter: exporter,
		dir:      dir,
		keep:     keep,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the timestamp source used in backup file names
func (b *BackupService) SetClock(now func() time.Time) {
	b.now = now
}

// ValidateSchedule checks a standard five-field cron spec
func ValidateSchedule(spec string) error {
	_, err := cron.ParseStandard(spec)
	return err
}

// Start schedules RunNow on spec. An empty spec disables scheduled backups.
func (b *BackupService) Start(spec string) error {
	if spec == "" {
		return nil
	}
	if b.dir == "" {
		return ErrBackupsDisabled
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cron != nil {
		return fmt.Errorf("backup scheduler already running")
	}

	c := cron.New(cron.WithLogger(cronLogger{b.log}))
	if _, err := c.AddFunc(spec, b.runScheduled); err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	c.Start()
	b.cron = c

	b.log.Info("Backup scheduler started", "schedule", spec, "dir", b.dir, "keep", b.keep)
	return nil
}

// Stop halts the scheduler and waits for a running backup to finish
func (b *BackupService) Stop() {
	b.mu.Lock()
	c := b.cron
	b.cron = nil
	b.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	b.log.Info("Backup scheduler stopped")
}

func (b *BackupService) runScheduled() {
	if _, err := b.RunNow(context.Background()); err != nil {
		b.log.Error("Scheduled backup failed", "error", err)
	}
}

// RunNow writes one backup file and prunes old ones. It returns the path written.
func (b *BackupService) RunNow(ctx context.Context) (string, error) {
	if b.dir == "" {
		return "", ErrBackupsDisabled
	}
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}

	snap, err := b.exporter.Export(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}

	name := backupPrefix + b.now().Format(backupTimeLayout) + backupSuffix
	path := filepath.Join(b.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	b.log.Info("Backup written", "path", path, "bytes", len(data))
	if err := b.prune(); err != nil {
		b.log.Warn("Failed to prune old backups", "error", err)
	}
	return path, nil
}

// List returns backup file names, oldest first
func (b *BackupService) List() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if !e.IsDir() && strings.HasPrefix(n, backupPrefix) && strings.HasSuffix(n, backupSuffix) {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names, nil
}

// prune removes the oldest backups beyond keep
func (b *BackupService) prune() error {
	if b.keep <= 0 {
		return nil
	}
	names, err := b.List()
	if err != nil {
		return err
	}
	for len(names) > b.keep {
		if err := os.Remove(filepath.Join(b.dir, names[0])); err != nil {
			return err
		}
		b.log.Debug("Pruned backup", "file", names[0])
		names = names[1:]
	}
	return nil
}

// cronLogger routes cron's internal logging to the application logger
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
