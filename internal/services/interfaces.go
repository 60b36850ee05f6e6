package services

import (
	"context"

	"github.com/abrezinsky/tourneytracker/internal/models"
	"github.com/abrezinsky/tourneytracker/internal/scoring"
)

// TeamServicer defines the interface for team operations
type TeamServicer interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	CreateTeam(ctx context.Context, in TeamInput) (*models.Team, error)
	UpdateTeam(ctx context.Context, id string, in TeamInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, id string) error
	SearchTeams(ctx context.Context, q string) ([]TeamMatch, error)
}

// SessionServicer defines the interface for session, game and penalty operations
type SessionServicer interface {
	ListSessions(ctx context.Context, status string) ([]models.Session, error)
	GetSession(ctx context.Context, id string) (*models.Session, error)
	CreateSession(ctx context.Context, in SessionInput) (*models.Session, error)
	UpdateSession(ctx context.Context, id string, upd SessionUpdate) (*models.Session, error)
	CompleteSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	AddGame(ctx context.Context, sessionID string, req GameRequest) (*models.Game, error)
	RemoveGame(ctx context.Context, sessionID, gameID string) error
	AddPenalty(ctx context.Context, sessionID string, req PenaltyRequest) (*models.Penalty, error)
	RemovePenalty(ctx context.Context, sessionID, penaltyID string) error
	Scores(ctx context.Context, id string) (*models.StandingsPayload, error)
	SetBroadcaster(b Broadcaster)
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
	UpdateSettings(ctx context.Context, upd models.SettingsUpdate) (*models.Settings, error)
	ScoringConfig(ctx context.Context) (scoring.Config, error)
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
}

// StatsServicer defines the interface for cross-session statistics
type StatsServicer interface {
	Leaderboard(ctx context.Context) ([]LeaderboardRow, error)
	Summary(ctx context.Context) (*models.Summary, error)
}

// DataServicer defines the interface for bulk export and import
type DataServicer interface {
	Export(ctx context.Context) (*models.Snapshot, error)
	Import(ctx context.Context, snap *models.Snapshot) (*models.ImportResult, error)
	ImportFromRemote(ctx context.Context, url string) (*models.ImportResult, error)
}

// BackupServicer defines the interface for backup operations
type BackupServicer interface {
	Start(spec string) error
	Stop()
	RunNow(ctx context.Context) (string, error)
	List() ([]string, error)
}

// Ensure concrete types implement interfaces
var (
	_ TeamServicer          = (*TeamService)(nil)
	_ SessionServicer       = (*SessionService)(nil)
	_ SettingsServicer      = (*SettingsService)(nil)
	_ StatsServicer         = (*StatsService)(nil)
	_ DataServicer          = (*DataService)(nil)
	_ BackupServicer        = (*BackupService)(nil)
	_ ScoringConfigProvider = (*SettingsService)(nil)
	_ SettingsReader        = (*SettingsService)(nil)
	_ Exporter              = (*DataService)(nil)
)
