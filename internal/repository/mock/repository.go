package mock

import (
	"context"

	"github.com/abrezinsky/tourneytracker/internal/models"
	"github.com/abrezinsky/tourneytracker/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.AddGameError = errors.New("database error")
//	svc := services.NewSessionService(log, mockRepo, settingsSvc)
//	_, err := svc.AddGame(ctx, sessionID, req)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Team Errors =====
	ListTeamsError  error
	GetTeamError    error
	CreateTeamError error
	UpdateTeamError error
	DeleteTeamError error

	// ===== Session Errors =====
	ListSessionsError  error
	GetSessionError    error
	CreateSessionError error
	UpdateSessionError error
	DeleteSessionError error

	// ===== Game Errors =====
	AddGameError    error
	RemoveGameError error

	// ===== Penalty Errors =====
	AddPenaltyError    error
	RemovePenaltyError error

	// ===== Settings Errors =====
	GetSettingError   error
	SetSettingError   error
	ListSettingsError error
	SetSettingsError  error
	GetSummaryError   error

	// ===== Snapshot Errors =====
	ReplaceAllError error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Team Methods =====

func (m *Repository) ListTeams(ctx context.Context) ([]models.Team, error) {
	if m.ListTeamsError != nil {
		return nil, m.ListTeamsError
	}
	return m.FullRepository.ListTeams(ctx)
}

func (m *Repository) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	if m.GetTeamError != nil {
		return nil, m.GetTeamError
	}
	return m.FullRepository.GetTeam(ctx, id)
}

func (m *Repository) CreateTeam(ctx context.Context, team *models.Team) error {
	if m.CreateTeamError != nil {
		return m.CreateTeamError
	}
	return m.FullRepository.CreateTeam(ctx, team)
}

func (m *Repository) UpdateTeam(ctx context.Context, team *models.Team) error {
	if m.UpdateTeamError != nil {
		return m.UpdateTeamError
	}
	return m.FullRepository.UpdateTeam(ctx, team)
}

func (m *Repository) DeleteTeam(ctx context.Context, id string) error {
	if m.DeleteTeamError != nil {
		return m.DeleteTeamError
	}
	return m.FullRepository.DeleteTeam(ctx, id)
}

// ===== Session Methods =====

func (m *Repository) ListSessions(ctx context.Context, status models.SessionStatus) ([]models.Session, error) {
	if m.ListSessionsError != nil {
		return nil, m.ListSessionsError
	}
	return m.FullRepository.ListSessions(ctx, status)
}

func (m *Repository) GetSession(ctx context.Context, id string) (*models.Session, error) {
	if m.GetSessionError != nil {
		return nil, m.GetSessionError
	}
	return m.FullRepository.GetSession(ctx, id)
}

func (m *Repository) CreateSession(ctx context.Context, session *models.Session) error {
	if m.CreateSessionError != nil {
		return m.CreateSessionError
	}
	return m.FullRepository.CreateSession(ctx, session)
}

func (m *Repository) UpdateSession(ctx context.Context, session *models.Session) error {
	if m.UpdateSessionError != nil {
		return m.UpdateSessionError
	}
	return m.FullRepository.UpdateSession(ctx, session)
}

func (m *Repository) DeleteSession(ctx context.Context, id string) error {
	if m.DeleteSessionError != nil {
		return m.DeleteSessionError
	}
	return m.FullRepository.DeleteSession(ctx, id)
}

// ===== Game Methods =====

func (m *Repository) AddGame(ctx context.Context, game *models.Game) error {
	if m.AddGameError != nil {
		return m.AddGameError
	}
	return m.FullRepository.AddGame(ctx, game)
}

func (m *Repository) RemoveGame(ctx context.Context, sessionID, gameID string) error {
	if m.RemoveGameError != nil {
		return m.RemoveGameError
	}
	return m.FullRepository.RemoveGame(ctx, sessionID, gameID)
}

// ===== Penalty Methods =====

func (m *Repository) AddPenalty(ctx context.Context, penalty *models.Penalty) error {
	if m.AddPenaltyError != nil {
		return m.AddPenaltyError
	}
	return m.FullRepository.AddPenalty(ctx, penalty)
}

func (m *Repository) RemovePenalty(ctx context.Context, sessionID, penaltyID string) error {
	if m.RemovePenaltyError != nil {
		return m.RemovePenaltyError
	}
	return m.FullRepository.RemovePenalty(ctx, sessionID, penaltyID)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}

func (m *Repository) ListSettings(ctx context.Context) (map[string]string, error) {
	if m.ListSettingsError != nil {
		return nil, m.ListSettingsError
	}
	return m.FullRepository.ListSettings(ctx)
}

func (m *Repository) SetSettings(ctx context.Context, values map[string]string) error {
	if m.SetSettingsError != nil {
		return m.SetSettingsError
	}
	return m.FullRepository.SetSettings(ctx, values)
}

func (m *Repository) GetSummary(ctx context.Context) (*models.Summary, error) {
	if m.GetSummaryError != nil {
		return nil, m.GetSummaryError
	}
	return m.FullRepository.GetSummary(ctx)
}

// ===== Snapshot Methods =====

func (m *Repository) ReplaceAll(ctx context.Context, teams []models.Team, sessions []models.Session, settings map[string]string) error {
	if m.ReplaceAllError != nil {
		return m.ReplaceAllError
	}
	return m.FullRepository.ReplaceAll(ctx, teams, sessions, settings)
}
