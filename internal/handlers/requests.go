package handlers

import "github.com/abrezinsky/tourneytracker/internal/models"

// TeamRequest represents a request to create or update a team
type TeamRequest struct {
	Name    string   `json:"name"`
	Players []string `json:"players"`
	Color   string   `json:"color"`
	Tag     string   `json:"tag"`
}

// SessionCreateRequest represents a request to start a session
type SessionCreateRequest struct {
	Name    string   `json:"name"`
	TeamIDs []string `json:"team_ids"`
	Date    string   `json:"date,omitempty"`
}

// SessionUpdateRequest represents a partial session change
type SessionUpdateRequest struct {
	Name   *string               `json:"name"`
	Status *models.SessionStatus `json:"status"`
}

// GameCreateRequest represents a game submission
type GameCreateRequest struct {
	Name             string              `json:"name"`
	PlayerPlacements map[string]int      `json:"player_placements"`
	TeamPlayerMap    map[string][]string `json:"team_player_map"`
}

// PenaltyCreateRequest represents a penalty submission
type PenaltyCreateRequest struct {
	TeamID string `json:"team_id"`
	Value  int    `json:"value"`
	Reason string `json:"reason"`
}

// RemoteImportRequest represents a request to import from another tracker
type RemoteImportRequest struct {
	URL string `json:"url"`
}
