package handlers

import (
	"net/http"

	"github.com/abrezinsky/tourneytracker/internal/models"
)

// ==================== Stats ====================

func (h *Handlers) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Stats.Leaderboard(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, rows)
}

func (h *Handlers) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Stats.Summary(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, summary)
}

// ==================== Settings ====================

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.GetSettings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, settings)
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req models.SettingsUpdate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	settings, err := h.Settings.UpdateSettings(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, settings)
}

// ==================== Health ====================

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Database: "ok"}
	if h.DB != nil {
		if err := h.DB.Ping(r.Context()); err != nil {
			resp.Status = "degraded"
			resp.Database = "unavailable"
			respondJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	respondOK(w, resp)
}
