package services

import (
	"context"
	"math"

	"github.com/abrezinsky/tourneytracker/internal/logger"
	"github.com/abrezinsky/tourneytracker/internal/models"
	"github.com/abrezinsky/tourneytracker/internal/scoring"
)

// UnknownTeamName is shown for leaderboard teams that have since been deleted
const UnknownTeamName = "Unknown"

// StatsRepository defines the repository methods needed by StatsService
type StatsRepository interface {
	ListSessions(ctx context.Context, status models.SessionStatus) ([]models.Session, error)
	GetSummary(ctx context.Context) (*models.Summary, error)
}

// TeamNamer resolves team ids to display names
type TeamNamer interface {
	Names(ctx context.Context) (map[string]string, error)
}

// LeaderboardRow is a leaderboard entry with display fields
type LeaderboardRow struct {
	scoring.LeaderboardEntry
	TeamName      string  `json:"team_name"`
	AveragePoints float64 `json:"average_points"`
}

// StatsService computes cross-session statistics
type StatsService struct {
	log   logger.Logger
	repo  StatsRepository
	names TeamNamer
}

// NewStatsService creates a new StatsService
func NewStatsService(log logger.Logger, repo StatsRepository, names TeamNamer) *StatsService {
	return &StatsService{log: log, repo: repo, names: names}
}

// Leaderboard aggregates every completed session into all-time standings
func (s *StatsService) Leaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	sessions, err := s.repo.ListSessions(ctx, models.SessionCompleted)
	if err != nil {
		return nil, fromRepo(err, "sessions")
	}

	inputs := make([]scoring.SessionInput, len(sessions))
	for i := range sessions {
		inputs[i] = sessions[i].ScoringInput()
	}

	entries, err := scoring.Leaderboard(inputs)
	if err != nil {
		s.log.Error("Leaderboard aggregation failed", "error", err)
		return nil, err
	}

	names, err := s.names.Names(ctx)
	if err != nil {
		return nil, fromRepo(err, "teams")
	}

	rows := make([]LeaderboardRow, len(entries))
	for i, e := range entries {
		name, ok := names[e.TeamID]
		if !ok {
			name = UnknownTeamName
		}
		rows[i] = LeaderboardRow{LeaderboardEntry: e, TeamName: name}
		if e.Sessions > 0 {
			rows[i].AveragePoints = math.Round(float64(e.TotalPoints)/float64(e.Sessions)*10) / 10
		}
	}
	return rows, nil
}

// Summary returns tracker-wide counts
func (s *StatsService) Summary(ctx context.Context) (*models.Summary, error) {
	summary, err := s.repo.GetSummary(ctx)
	if err != nil {
		return nil, fromRepo(err, "summary")
	}
	return summary, nil
}
