package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/tourneytracker/internal/models"
	"github.com/abrezinsky/tourneytracker/internal/services"
)

// ==================== Teams ====================

func (h *Handlers) handleListTeams(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		matches, err := h.Teams.SearchTeams(r.Context(), q)
		if err != nil {
			respondError(w, err)
			return
		}
		teams := make([]models.Team, len(matches))
		for i, m := range matches {
			teams[i] = m.Team
		}
		respondOK(w, teams)
		return
	}

	teams, err := h.Teams.ListTeams(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if teams == nil {
		teams = []models.Team{}
	}
	respondOK(w, teams)
}

func (h *Handlers) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.Teams.GetTeam(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, team)
}

func (h *Handlers) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req TeamRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	team, err := h.Teams.CreateTeam(r.Context(), services.TeamInput(req))
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, team)
}

func (h *Handlers) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	var req TeamRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	team, err := h.Teams.UpdateTeam(r.Context(), chi.URLParam(r, "id"), services.TeamInput(req))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, team)
}

func (h *Handlers) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := h.Teams.DeleteTeam(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}
