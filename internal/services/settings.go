package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/abrezinsky/tourneytracker/internal/errors"
	"github.com/abrezinsky/tourneytracker/internal/logger"
	"github.com/abrezinsky/tourneytracker/internal/models"
	"github.com/abrezinsky/tourneytracker/internal/repository"
	"github.com/abrezinsky/tourneytracker/internal/scoring"
)

// Setting keys
const (
	SettingLeagueName  = "league_name"
	SettingSeason      = "season"
	SettingDescription = "description"
	SettingScoring     = "scoring"
	SettingScoring2P   = "scoring_2p"
	SettingBaseURL     = "base_url"
)

// Default presentation settings
const (
	DefaultLeagueName = "Pro League"
	DefaultSeason     = "Season 4"
)

// SettingsService handles settings-related business logic
type SettingsService struct {
	log  logger.Logger
	repo repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{log: log, repo: repo}
}

// GetSettings returns the current settings with defaults filled in
func (s *SettingsService) GetSettings(ctx context.Context) (*models.Settings, error) {
	stored, err := s.repo.ListSettings(ctx)
	if err != nil {
		return nil, fromRepo(err, "settings")
	}
	settings := s.settingsFromMap(stored)
	return &settings, nil
}

// settingsFromMap builds Settings from stored key/values. Corrupt scoring
// JSON falls back to the defaults with a warning.
func (s *SettingsService) settingsFromMap(stored map[string]string) models.Settings {
	settings := models.Settings{
		LeagueName:  DefaultLeagueName,
		Season:      DefaultSeason,
		Description: stored[SettingDescription],
		BaseURL:     stored[SettingBaseURL],
	}
	if v, ok := stored[SettingLeagueName]; ok {
		settings.LeagueName = v
	}
	if v, ok := stored[SettingSeason]; ok {
		settings.Season = v
	}

	var overrides scoring.Overrides
	if raw := stored[SettingScoring]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &overrides.Standard); err != nil {
			s.log.Warn("Ignoring corrupt scoring setting", "value", raw, "error", err)
			overrides.Standard = nil
		}
	}
	if raw := stored[SettingScoring2P]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &overrides.TwoPlayer); err != nil {
			s.log.Warn("Ignoring corrupt scoring_2p setting", "value", raw, "error", err)
			overrides.TwoPlayer = nil
		}
	}
	settings.Config = overrides.Resolve()
	return settings
}

// UpdateSettings applies a partial update. Only provided fields are written.
// The merged scoring tables must pass scoring.Config.Validate.
func (s *SettingsService) UpdateSettings(ctx context.Context, upd models.SettingsUpdate) (*models.Settings, error) {
	current, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	if upd.LeagueName != nil {
		name := strings.TrimSpace(*upd.LeagueName)
		if name == "" {
			return nil, errors.Validation("league_name cannot be empty")
		}
		values[SettingLeagueName] = name
	}
	if upd.Season != nil {
		values[SettingSeason] = strings.TrimSpace(*upd.Season)
	}
	if upd.Description != nil {
		values[SettingDescription] = strings.TrimSpace(*upd.Description)
	}
	if upd.BaseURL != nil {
		values[SettingBaseURL] = strings.TrimSuffix(strings.TrimSpace(*upd.BaseURL), "/")
	}

	if upd.Scoring != nil || upd.Scoring2P != nil {
		cfg := scoring.Config{
			Standard:  upd.Scoring.Apply(current.Standard),
			TwoPlayer: upd.Scoring2P.Apply(current.TwoPlayer),
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		for key, v := range scoringValues(cfg) {
			values[key] = v
		}
	}

	if len(values) == 0 {
		return current, nil
	}
	if err := s.repo.SetSettings(ctx, values); err != nil {
		return nil, fromRepo(err, "settings")
	}
	s.log.Info("Settings updated", "keys", len(values))
	return s.GetSettings(ctx)
}

// ScoringConfig returns the scoring tables new games are scored with
func (s *SettingsService) ScoringConfig(ctx context.Context) (scoring.Config, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return scoring.Config{}, err
	}
	return settings.Config, nil
}

// GetBaseURL returns the application base URL
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	value, err := s.repo.GetSetting(ctx, SettingBaseURL)
	if err != nil {
		if err == repository.ErrNotFound {
			return "", nil // not yet configured
		}
		return "", fromRepo(err, "setting")
	}
	return value, nil
}

// SetBaseURL saves the application base URL
func (s *SettingsService) SetBaseURL(ctx context.Context, url string) error {
	return fromRepo(s.repo.SetSetting(ctx, SettingBaseURL, strings.TrimSuffix(url, "/")), "setting")
}

// scoringValues encodes both scoring tables as stored settings
func scoringValues(cfg scoring.Config) map[string]string {
	std, _ := json.Marshal(cfg.Standard)
	two, _ := json.Marshal(cfg.TwoPlayer)
	return map[string]string{
		SettingScoring:   string(std),
		SettingScoring2P: string(two),
	}
}

// settingsToMap encodes Settings for storage. base_url is left out; it
// belongs to the local install.
func settingsToMap(settings models.Settings) map[string]string {
	values := scoringValues(settings.Config)
	values[SettingLeagueName] = settings.LeagueName
	values[SettingSeason] = settings.Season
	values[SettingDescription] = settings.Description
	return values
}
