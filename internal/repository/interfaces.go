package repository

import (
	"context"

	"github.com/abrezinsky/tourneytracker/internal/models"
)

// TeamRepository defines team data operations
type TeamRepository interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	CreateTeam(ctx context.Context, team *models.Team) error
	UpdateTeam(ctx context.Context, team *models.Team) error
	DeleteTeam(ctx context.Context, id string) error
}

// SessionRepository defines session data operations. Sessions are returned
// with their games and penalties loaded.
type SessionRepository interface {
	ListSessions(ctx context.Context, status models.SessionStatus) ([]models.Session, error)
	GetSession(ctx context.Context, id string) (*models.Session, error)
	CreateSession(ctx context.Context, session *models.Session) error
	UpdateSession(ctx context.Context, session *models.Session) error
	DeleteSession(ctx context.Context, id string) error
}

// GameRepository defines game data operations. Writes fail with
// ErrSessionCompleted once the owning session is completed.
type GameRepository interface {
	AddGame(ctx context.Context, game *models.Game) error
	RemoveGame(ctx context.Context, sessionID, gameID string) error
}

// PenaltyRepository defines penalty data operations. Writes fail with
// ErrSessionCompleted once the owning session is completed.
type PenaltyRepository interface {
	AddPenalty(ctx context.Context, penalty *models.Penalty) error
	RemovePenalty(ctx context.Context, sessionID, penaltyID string) error
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	ListSettings(ctx context.Context) (map[string]string, error)
	SetSettings(ctx context.Context, values map[string]string) error
	GetSummary(ctx context.Context) (*models.Summary, error)
}

// SnapshotRepository replaces the whole data set in one transaction
type SnapshotRepository interface {
	ReplaceAll(ctx context.Context, teams []models.Team, sessions []models.Session, settings map[string]string) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	TeamRepository
	SessionRepository
	GameRepository
	PenaltyRepository
	SettingsRepository
	SnapshotRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
