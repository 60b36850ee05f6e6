package models

import (
	"encoding/json"
	"time"

	"github.com/abrezinsky/tourneytracker/internal/scoring"
)

// SessionStatus is the lifecycle state of a session
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// Valid reports whether s is a known status
func (s SessionStatus) Valid() bool {
	return s == SessionActive || s == SessionCompleted
}

// Team represents a competing team and its roster
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Players   []string  `json:"players"`
	Color     string    `json:"color,omitempty"`
	Tag       string    `json:"tag,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is one evening of games between a fixed set of teams
type Session struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Date      time.Time     `json:"date"`
	TeamIDs   []string      `json:"team_ids"`
	Status    SessionStatus `json:"status"`
	Games     []Game        `json:"games"`
	Penalties []Penalty     `json:"penalties"`
}

// IsCompleted reports whether the session has been closed
func (s *Session) IsCompleted() bool {
	return s.Status == SessionCompleted
}

// ScoringInput converts the session into the scoring package's view
func (s *Session) ScoringInput() scoring.SessionInput {
	in := scoring.SessionInput{
		ID:        s.ID,
		Completed: s.IsCompleted(),
		TeamIDs:   s.TeamIDs,
		Games:     make([]scoring.GameResult, len(s.Games)),
		Penalties: make([]scoring.Penalty, len(s.Penalties)),
	}
	for i, g := range s.Games {
		in.Games[i] = g.GameResult
	}
	for i, p := range s.Penalties {
		in.Penalties[i] = scoring.Penalty{TeamID: p.TeamID, Value: p.Value}
	}
	return in
}

// Standings computes the session's current standings
func (s *Session) Standings() ([]scoring.Standing, error) {
	in := s.ScoringInput()
	return scoring.SessionScores(in.TeamIDs, in.Games, in.Penalties)
}

// Game is a stored game result. The scoring fields are frozen when the game is
// recorded and never recomputed from the current configuration.
type Game struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	scoring.GameResult
	CreatedAt time.Time `json:"created_at"`
}

// Penalty is a non-positive adjustment to one team's session total
type Penalty struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	TeamID    string    `json:"team_id"`
	Value     int       `json:"value"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// Settings holds the league presentation settings and scoring tables
type Settings struct {
	LeagueName  string `json:"league_name"`
	Season      string `json:"season"`
	Description string `json:"description"`
	BaseURL     string `json:"base_url,omitempty"`
	scoring.Config
}

// UnmarshalJSON fills scoring values absent from the document with the
// defaults, field by field. Values that are present, zeros included, are
// kept.
func (s *Settings) UnmarshalJSON(data []byte) error {
	type plain Settings
	decoded := plain{Config: scoring.DefaultConfig()}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*s = Settings(decoded)
	return nil
}

// SettingsUpdate carries a partial settings change. Nil fields are untouched.
type SettingsUpdate struct {
	LeagueName  *string                     `json:"league_name,omitempty"`
	Season      *string                     `json:"season,omitempty"`
	Description *string                     `json:"description,omitempty"`
	BaseURL     *string                     `json:"base_url,omitempty"`
	Scoring     *scoring.StandardOverrides  `json:"scoring,omitempty"`
	Scoring2P   *scoring.TwoPlayerOverrides `json:"scoring_2p,omitempty"`
}

// SnapshotVersion is the current export format version
const SnapshotVersion = 1

// Snapshot is a full export of tracker state
type Snapshot struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Teams      []Team    `json:"teams"`
	Sessions   []Session `json:"sessions"`
	Settings   *Settings `json:"settings,omitempty"`
}

// ImportResult summarizes what an import replaced
type ImportResult struct {
	Teams         int `json:"teams"`
	Sessions      int `json:"sessions"`
	Games         int `json:"games"`
	Penalties     int `json:"penalties"`
	MigratedGames int `json:"migrated_games"`
}

// StandingsPayload is broadcast to live clients after a session changes
type StandingsPayload struct {
	SessionID string             `json:"session_id"`
	Status    SessionStatus      `json:"status"`
	Standings []scoring.Standing `json:"standings"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Payload   interface{} `json:"payload"`
}

// Summary holds tracker-wide counts
type Summary struct {
	Teams             int `json:"teams"`
	Sessions          int `json:"sessions"`
	ActiveSessions    int `json:"active_sessions"`
	CompletedSessions int `json:"completed_sessions"`
	GamesPlayed       int `json:"games_played"`
	Penalties         int `json:"penalties"`
}
