package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/tourneytracker/internal/models"
	"github.com/abrezinsky/tourneytracker/internal/services"
)

// QR image size bounds in pixels
const (
	defaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

// ==================== Sessions ====================

func (h *Handlers) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.Sessions.ListSessions(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		respondError(w, err)
		return
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	respondOK(w, sessions)
}

func (h *Handlers) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.Sessions.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, session)
}

func (h *Handlers) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	in := services.SessionInput{Name: req.Name, TeamIDs: req.TeamIDs}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			respondError(w, Unprocessable("Invalid date: use YYYY-MM-DD or RFC 3339"))
			return
		}
		in.Date = date
	}

	session, err := h.Sessions.CreateSession(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, session)
}

func (h *Handlers) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	session, err := h.Sessions.UpdateSession(r.Context(), chi.URLParam(r, "id"),
		services.SessionUpdate{Name: req.Name, Status: req.Status})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, session)
}

func (h *Handlers) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.Sessions.CompleteSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, session)
}

func (h *Handlers) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleSessionScores(w http.ResponseWriter, r *http.Request) {
	scores, err := h.Sessions.Scores(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, scores)
}

// ==================== Games & Penalties ====================

func (h *Handlers) handleAddGame(w http.ResponseWriter, r *http.Request) {
	var req GameCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	game, err := h.Sessions.AddGame(r.Context(), chi.URLParam(r, "id"), services.GameRequest(req))
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, game)
}

func (h *Handlers) handleRemoveGame(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.RemoveGame(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "gameID")); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleAddPenalty(w http.ResponseWriter, r *http.Request) {
	var req PenaltyCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	penalty, err := h.Sessions.AddPenalty(r.Context(), chi.URLParam(r, "id"), services.PenaltyRequest(req))
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, penalty)
}

func (h *Handlers) handleRemovePenalty(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.RemovePenalty(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "penaltyID")); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// handleSessionQR serves a PNG QR code linking to the session's live scores
func (h *Handlers) handleSessionQR(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Sessions.GetSession(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	size := defaultQRSize
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < minQRSize || n > maxQRSize {
			respondError(w, BadRequest(fmt.Sprintf("size must be between %d and %d", minQRSize, maxQRSize)))
			return
		}
		size = n
	}

	baseURL, err := h.Settings.GetBaseURL(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if baseURL == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		baseURL = scheme + "://" + r.Host
	}
	target := fmt.Sprintf("%s/api/sessions/%s/scores", strings.TrimSuffix(baseURL, "/"), id)

	png, err := qrcode.Encode(target, qrcode.Medium, size)
	if err != nil {
		respondError(w, InternalError(err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

// parseDate accepts a calendar date or an RFC 3339 timestamp
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
