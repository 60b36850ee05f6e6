// Package handlers exposes the tracker's REST API.
package handlers

import (
	"context"
	"net/http"

	"github.com/abrezinsky/tourneytracker/internal/services"
)

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// Pinger reports storage health
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Teams    services.TeamServicer
	Sessions services.SessionServicer
	Settings services.SettingsServicer
	Stats    services.StatsServicer
	Data     services.DataServicer
	Backup   services.BackupServicer
	DB       Pinger
	WS       http.HandlerFunc
	Log      HTTPLogger
	limiter  *Limiter
}

// New creates a new Handlers instance with all dependencies.
// backup, db and ws may be nil; their routes then report unavailability.
func New(
	teams services.TeamServicer,
	sessions services.SessionServicer,
	settings services.SettingsServicer,
	stats services.StatsServicer,
	data services.DataServicer,
	backup services.BackupServicer,
	db Pinger,
	ws http.HandlerFunc,
	log HTTPLogger,
) *Handlers {
	return &Handlers{
		Teams:    teams,
		Sessions: sessions,
		Settings: settings,
		Stats:    stats,
		Data:     data,
		Backup:   backup,
		DB:       db,
		WS:       ws,
		Log:      log,
	}
}

// SetRateLimit limits mutating requests to rps per second with the given
// burst. rps <= 0 disables limiting.
func (h *Handlers) SetRateLimit(rps float64, burst int) {
	h.limiter = NewLimiter(rps, burst)
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }
