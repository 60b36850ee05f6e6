package services

import (
	"context"
	"strings"
	"time"

	"github.com/abrezinsky/tourneytracker/internal/errors"
	"github.com/abrezinsky/tourneytracker/internal/logger"
	"github.com/abrezinsky/tourneytracker/internal/models"
	"github.com/abrezinsky/tourneytracker/internal/repository"
	"github.com/abrezinsky/tourneytracker/internal/scoring"
)

// Broadcaster defines the interface for pushing fresh standings to clients
type Broadcaster interface {
	BroadcastStandings(payload models.StandingsPayload)
}

// ScoringConfigProvider supplies the scoring tables used for new games
type ScoringConfigProvider interface {
	ScoringConfig(ctx context.Context) (scoring.Config, error)
}

// SessionServiceRepository defines the repository methods needed by SessionService
type SessionServiceRepository interface {
	repository.TeamRepository
	repository.SessionRepository
	repository.GameRepository
	repository.PenaltyRepository
}

// SessionInput holds the fields for a new session
type SessionInput struct {
	Name    string    `json:"name"`
	TeamIDs []string  `json:"team_ids"`
	Date    time.Time `json:"date"`
}

// SessionUpdate carries a partial session change. Nil fields are untouched.
type SessionUpdate struct {
	Name   *string               `json:"name,omitempty"`
	Status *models.SessionStatus `json:"status,omitempty"`
}

// GameRequest is a raw game submission. PlayerPlacements is keyed by
// "teamId::name"; TeamPlayerMap lists bare names per team.
type GameRequest struct {
	Name             string              `json:"name"`
	PlayerPlacements map[string]int      `json:"player_placements"`
	TeamPlayerMap    map[string][]string `json:"team_player_map"`
}

// PenaltyRequest is a raw penalty submission
type PenaltyRequest struct {
	TeamID string `json:"team_id"`
	Value  int    `json:"value"`
	Reason string `json:"reason"`
}

// SessionService handles sessions and the games and penalties recorded in them
type SessionService struct {
	log         logger.Logger
	repo        SessionServiceRepository
	scoring     ScoringConfigProvider
	broadcaster Broadcaster
}

// NewSessionService creates a new SessionService
func NewSessionService(log logger.Logger, repo SessionServiceRepository, cfg ScoringConfigProvider) *SessionService {
	return &SessionService{log: log, repo: repo, scoring: cfg}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// ListSessions returns sessions in creation order, optionally filtered by status
func (s *SessionService) ListSessions(ctx context.Context, status string) ([]models.Session, error) {
	st := models.SessionStatus(strings.TrimSpace(status))
	if st != "" && !st.Valid() {
		return nil, errors.Validationf("invalid status %q: must be active or completed", status)
	}
	sessions, err := s.repo.ListSessions(ctx, st)
	if err != nil {
		return nil, fromRepo(err, "sessions")
	}
	return sessions, nil
}

// GetSession returns a session with its games and penalties
func (s *SessionService) GetSession(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "session "+id)
	}
	return session, nil
}

// CreateSession starts an active session between existing teams.
// Duplicate team ids are collapsed, keeping first occurrence order.
func (s *SessionService) CreateSession(ctx context.Context, in SessionInput) (*models.Session, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.Validation("session name is required")
	}

	var teamIDs []string
	seen := make(map[string]bool, len(in.TeamIDs))
	for _, id := range in.TeamIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		teamIDs = append(teamIDs, id)
	}
	if len(teamIDs) < 2 {
		return nil, ErrTooFewTeams
	}

	var unknown []string
	for _, id := range teamIDs {
		if _, err := s.repo.GetTeam(ctx, id); err != nil {
			if err == repository.ErrNotFound {
				unknown = append(unknown, id)
				continue
			}
			return nil, fromRepo(err, "team")
		}
	}
	if len(unknown) > 0 {
		return nil, errors.Validationf("unknown teams: %s", strings.Join(unknown, ", "))
	}

	session := &models.Session{
		Name:    name,
		Date:    in.Date,
		TeamIDs: teamIDs,
		Status:  models.SessionActive,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fromRepo(err, "session")
	}
	session.Games = []models.Game{}
	session.Penalties = []models.Penalty{}

	s.log.Info("Session created", "session_id", session.ID, "name", name, "teams", len(teamIDs))
	return session, nil
}

// UpdateSession renames a session and/or changes its status. The only
// allowed transition is active to completed; setting the current status is
// a no-op.
func (s *SessionService) UpdateSession(ctx context.Context, id string, upd SessionUpdate) (*models.Session, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	statusChanged := false
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, errors.Validation("session name cannot be empty")
		}
		if name != session.Name {
			session.Name = name
			changed = true
		}
	}
	if upd.Status != nil && *upd.Status != session.Status {
		switch {
		case !upd.Status.Valid():
			return nil, errors.Validationf("invalid status %q: must be active or completed", *upd.Status)
		case session.IsCompleted():
			return nil, errors.Conflictf("session %s is completed and cannot be reopened", id)
		}
		session.Status = *upd.Status
		changed = true
		statusChanged = true
	}

	if !changed {
		return session, nil
	}
	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return nil, fromRepo(err, "session "+id)
	}

	s.log.Info("Session updated", "session_id", id, "name", session.Name, "status", session.Status)
	if statusChanged {
		s.broadcast(ctx, id)
	}
	return session, nil
}

// CompleteSession closes an active session. Completing it again is a conflict.
func (s *SessionService) CompleteSession(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, errors.Conflictf("session %s is already completed", id)
	}
	status := models.SessionCompleted
	return s.UpdateSession(ctx, id, SessionUpdate{Status: &status})
}

// DeleteSession removes a session with its games and penalties
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	if err := s.repo.DeleteSession(ctx, id); err != nil {
		return fromRepo(err, "session "+id)
	}
	s.log.Info("Session deleted", "session_id", id)
	return nil
}

// AddGame validates and scores a game with the current scoring tables and
// records it in an active session.
func (s *SessionService) AddGame(ctx context.Context, sessionID string, req GameRequest) (*models.Game, error) {
	session, err := s.activeSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.scoring.ScoringConfig(ctx)
	if err != nil {
		return nil, err
	}
	result, err := scoring.NewGame(req.Name, req.PlayerPlacements, req.TeamPlayerMap, cfg, session.TeamIDs)
	if err != nil {
		return nil, err
	}

	game := &models.Game{SessionID: sessionID, GameResult: *result}
	if err := s.repo.AddGame(ctx, game); err != nil {
		return nil, fromRepo(err, "session "+sessionID)
	}

	s.log.Info("Game recorded", "session_id", sessionID, "game_id", game.ID,
		"name", game.Name, "players", game.FieldSize())
	s.broadcast(ctx, sessionID)
	return game, nil
}

// RemoveGame deletes a game from an active session
func (s *SessionService) RemoveGame(ctx context.Context, sessionID, gameID string) error {
	if _, err := s.activeSession(ctx, sessionID); err != nil {
		return err
	}
	if err := s.repo.RemoveGame(ctx, sessionID, gameID); err != nil {
		return fromRepo(err, "game "+gameID)
	}
	s.log.Info("Game removed", "session_id", sessionID, "game_id", gameID)
	s.broadcast(ctx, sessionID)
	return nil
}

// AddPenalty records a non-positive adjustment for a team in an active session
func (s *SessionService) AddPenalty(ctx context.Context, sessionID string, req PenaltyRequest) (*models.Penalty, error) {
	session, err := s.activeSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	teamID := strings.TrimSpace(req.TeamID)
	if teamID == "" {
		return nil, errors.Validation("team_id is required")
	}
	if req.Value > 0 {
		return nil, ErrPenaltyPositive
	}
	inSession := false
	for _, id := range session.TeamIDs {
		if id == teamID {
			inSession = true
			break
		}
	}
	if !inSession {
		return nil, errors.Validationf("team %s is not in session %s", teamID, sessionID)
	}

	penalty := &models.Penalty{
		SessionID: sessionID,
		TeamID:    teamID,
		Value:     req.Value,
		Reason:    strings.TrimSpace(req.Reason),
	}
	if err := s.repo.AddPenalty(ctx, penalty); err != nil {
		return nil, fromRepo(err, "session "+sessionID)
	}

	s.log.Info("Penalty recorded", "session_id", sessionID, "penalty_id", penalty.ID,
		"team_id", teamID, "value", req.Value)
	s.broadcast(ctx, sessionID)
	return penalty, nil
}

// RemovePenalty deletes a penalty from an active session
func (s *SessionService) RemovePenalty(ctx context.Context, sessionID, penaltyID string) error {
	if _, err := s.activeSession(ctx, sessionID); err != nil {
		return err
	}
	if err := s.repo.RemovePenalty(ctx, sessionID, penaltyID); err != nil {
		return fromRepo(err, "penalty "+penaltyID)
	}
	s.log.Info("Penalty removed", "session_id", sessionID, "penalty_id", penaltyID)
	s.broadcast(ctx, sessionID)
	return nil
}

// Scores computes the session's current standings. Stored data that
// breaks a scoring invariant is reported, never skipped.
func (s *SessionService) Scores(ctx context.Context, id string) (*models.StandingsPayload, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	standings, err := session.Standings()
	if err != nil {
		s.log.Error("Session data violates scoring invariants", "session_id", id, "error", err)
		return nil, err
	}
	return &models.StandingsPayload{SessionID: id, Status: session.Status, Standings: standings}, nil
}

// activeSession loads a session and rejects completed ones
func (s *SessionService) activeSession(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, ErrSessionCompleted
	}
	return session, nil
}

// broadcast pushes the session's fresh standings to live clients
func (s *SessionService) broadcast(ctx context.Context, id string) {
	if s.broadcaster == nil {
		return
	}
	payload, err := s.Scores(ctx, id)
	if err != nil {
		s.log.Warn("Skipping standings broadcast", "session_id", id, "error", err)
		return
	}
	s.broadcaster.BroadcastStandings(*payload)
}
