package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)

	// WebSocket connections are long-lived and stay outside the request timeout
	if h.WS != nil {
		r.Get("/ws", h.WS)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(h.limiter.Middleware)

		r.Get("/health", h.handleHealth)

		// Teams
		r.Get("/teams", h.handleListTeams)
		r.Post("/teams", h.handleCreateTeam)
		r.Get("/teams/{id}", h.handleGetTeam)
		r.Put("/teams/{id}", h.handleUpdateTeam)
		r.Delete("/teams/{id}", h.handleDeleteTeam)

		// Sessions
		r.Get("/sessions", h.handleListSessions)
		r.Post("/sessions", h.handleCreateSession)
		r.Get("/sessions/{id}", h.handleGetSession)
		r.Put("/sessions/{id}", h.handleUpdateSession)
		r.Delete("/sessions/{id}", h.handleDeleteSession)
		r.Post("/sessions/{id}/complete", h.handleCompleteSession)
		r.Get("/sessions/{id}/scores", h.handleSessionScores)
		r.Get("/sessions/{id}/qr", h.handleSessionQR)

		// Games & Penalties
		r.Post("/sessions/{id}/games", h.handleAddGame)
		r.Delete("/sessions/{id}/games/{gameID}", h.handleRemoveGame)
		r.Post("/sessions/{id}/penalties", h.handleAddPenalty)
		r.Delete("/sessions/{id}/penalties/{penaltyID}", h.handleRemovePenalty)

		// Stats
		r.Get("/stats/leaderboard", h.handleLeaderboard)
		r.Get("/stats/summary", h.handleSummary)

		// Settings
		r.Get("/settings", h.handleGetSettings)
		r.Put("/settings", h.handleUpdateSettings)

		// Data
		r.Get("/export", h.handleExport)
		r.Post("/import", h.handleImport)
		r.Post("/import/remote", h.handleImportRemote)

		// Backups
		r.Get("/admin/backups", h.handleListBackups)
		r.Post("/admin/backup", h.handleRunBackup)
	})

	return r
}
