// Package app wires the tracker's storage, services and HTTP surface together
// and owns their lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/tourneytracker/internal/cache"
	"github.com/abrezinsky/tourneytracker/internal/config"
	"github.com/abrezinsky/tourneytracker/internal/handlers"
	"github.com/abrezinsky/tourneytracker/internal/logger"
	"github.com/abrezinsky/tourneytracker/internal/repository"
	"github.com/abrezinsky/tourneytracker/internal/services"
	"github.com/abrezinsky/tourneytracker/internal/websocket"
	"github.com/abrezinsky/tourneytracker/pkg/tracker"
)

// App holds all application dependencies
type App struct {
	log      logger.Logger
	cfg      *config.Config
	repo     *repository.Repository
	settings *services.SettingsService
	backup   *services.BackupService
	hub      *websocket.Hub
	handlers *handlers.Handlers

	mu       sync.Mutex
	server   *http.Server
	closeOne sync.Once
}

// New creates and initializes a new application instance. remote is used to
// pull snapshots from other tracker instances and may be nil.
func New(log logger.Logger, cfg *config.Config, remote tracker.Client) (*App, error) {
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	teams := cache.NewTeamCache(repo)

	// Initialize services
	teamService := services.NewTeamService(log, repo, teams)
	settingsService := services.NewSettingsService(log, repo)
	sessionService := services.NewSessionService(log, repo, settingsService)
	statsService := services.NewStatsService(log, repo, teams)
	dataService := services.NewDataService(log, repo, settingsService, teams, remote)
	backupService := services.NewBackupService(log, dataService, cfg.BackupDir, cfg.BackupKeep)

	// Initialize WebSocket hub with DI
	hub := websocket.New(log, sessionService)
	hub.Start()
	sessionService.SetBroadcaster(hub)

	if err := backupService.Start(cfg.BackupSchedule); err != nil {
		hub.Stop()
		repo.Close()
		return nil, fmt.Errorf("failed to schedule backups: %w", err)
	}

	h := handlers.New(
		teamService,
		sessionService,
		settingsService,
		statsService,
		dataService,
		backupService,
		repo,
		hub.ServeWs,
		log,
	)
	h.SetRateLimit(cfg.RateLimit, cfg.RateBurst)

	return &App{
		log:      log,
		cfg:      cfg,
		repo:     repo,
		settings: settingsService,
		backup:   backupService,
		hub:      hub,
		handlers: h,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Run starts the HTTP server and blocks until it stops. It returns nil after
// a graceful Shutdown.
func (a *App) Run(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	baseURL := a.cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://%s", net.JoinHostPort(getPreferredIP(realNetworkProvider{}), listenPort(ln)))
		a.setDefaultBaseURL(baseURL)
	} else if err := a.settings.SetBaseURL(context.Background(), baseURL); err != nil {
		a.log.Warn("Failed to store configured base_url", "error", err)
	}

	srv := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.mu.Lock()
	a.server = srv
	a.mu.Unlock()

	a.log.Info("Server starting", "url", baseURL, "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Backup writes a snapshot file immediately and returns its path
func (a *App) Backup(ctx context.Context) (string, error) {
	return a.backup.RunNow(ctx)
}

// Shutdown stops accepting requests, waits for in-flight ones and releases
// all resources
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	srv := a.server
	a.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}
	a.Close()
	return err
}

// Close stops background work and closes the database. Safe to call more
// than once.
func (a *App) Close() {
	a.closeOne.Do(func() {
		a.backup.Stop()
		a.hub.Stop()
		if err := a.repo.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
	})
}

// setDefaultBaseURL sets the base URL setting if not already configured
// or if current value uses localhost (which isn't useful for QR codes)
func (a *App) setDefaultBaseURL(baseURL string) {
	ctx := context.Background()
	existing, err := a.settings.GetBaseURL(ctx)
	if err != nil {
		a.log.Warn("Failed to read base_url", "error", err)
		return
	}

	if existing != "" && !strings.Contains(existing, "localhost") {
		return
	}
	if err := a.settings.SetBaseURL(ctx, baseURL); err != nil {
		a.log.Warn("Failed to set default base_url", "error", err)
		return
	}
	a.log.Info("Default base URL set", "url", baseURL)
}

func listenPort(ln net.Listener) string {
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		return strconv.Itoa(tcp.Port)
	}
	_, port, _ := net.SplitHostPort(ln.Addr().String())
	return port
}
