package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/abrezinsky/tourneytracker/internal/errors"
	"github.com/abrezinsky/tourneytracker/internal/logger"
	"github.com/abrezinsky/tourneytracker/internal/models"
	"github.com/abrezinsky/tourneytracker/internal/scoring"
	"github.com/abrezinsky/tourneytracker/pkg/tracker"
)

// DataRepository defines the repository methods needed by DataService
type DataRepository interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
	ListSessions(ctx context.Context, status models.SessionStatus) ([]models.Session, error)
	ReplaceAll(ctx context.Context, teams []models.Team, sessions []models.Session, settings map[string]string) error
}

// SettingsReader supplies the settings included in exports
type SettingsReader interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
	GetBaseURL(ctx context.Context) (string, error)
}

// Invalidator is notified when stored teams are replaced
type Invalidator interface {
	Invalidate()
}

// DataService handles bulk export and import
type DataService struct {
	log      logger.Logger
	repo     DataRepository
	settings SettingsReader
	teams    Invalidator
	client   tracker.Client
	now      func() time.Time
}

// NewDataService creates a new DataService. client is used by ImportFromRemote.
func NewDataService(log logger.Logger, repo DataRepository, settings SettingsReader, teams Invalidator, client tracker.Client) *DataService {
	return &DataService{
		log:      log,
		repo:     repo,
		settings: settings,
		teams:    teams,
		client:   client,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the export timestamp source
func (s *DataService) SetClock(now func() time.Time) {
	s.now = now
}

// Export returns a full snapshot of teams, sessions with their games and
// penalties, and settings. The local base_url is not exported.
func (s *DataService) Export(ctx context.Context) (*models.Snapshot, error) {
	teams, err := s.repo.ListTeams(ctx)
	if err != nil {
		return nil, fromRepo(err, "teams")
	}
	sessions, err := s.repo.ListSessions(ctx, "")
	if err != nil {
		return nil, fromRepo(err, "sessions")
	}
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	exported := *settings
	exported.BaseURL = ""

	if teams == nil {
		teams = []models.Team{}
	}
	if sessions == nil {
		sessions = []models.Session{}
	}

	return &models.Snapshot{
		Version:    models.SnapshotVersion,
		ExportedAt: s.now(),
		Teams:      teams,
		Sessions:   sessions,
		Settings:   &exported,
	}, nil
}

// Import validates a snapshot and replaces all stored teams, sessions and
// (when present) settings with it in one transaction. Legacy games keyed by
// bare player name are migrated to "teamId::name" keys. Every session must
// score cleanly or nothing is written.
func (s *DataService) Import(ctx context.Context, snap *models.Snapshot) (*models.ImportResult, error) {
	if snap == nil || (len(snap.Teams) == 0 && len(snap.Sessions) == 0 && snap.Settings == nil) {
		return nil, ErrNothingToImport
	}
	if snap.Version > models.SnapshotVersion {
		return nil, errors.Validationf("unsupported snapshot version %d (newest supported is %d)",
			snap.Version, models.SnapshotVersion)
	}

	teams, err := prepareTeams(snap.Teams)
	if err != nil {
		return nil, err
	}
	result := &models.ImportResult{Teams: len(teams)}
	sessions, err := prepareSessions(snap.Sessions, result)
	if err != nil {
		return nil, err
	}

	var settings map[string]string
	if snap.Settings != nil {
		if settings, err = s.prepareSettings(ctx, *snap.Settings); err != nil {
			return nil, err
		}
	}

	if err := s.repo.ReplaceAll(ctx, teams, sessions, settings); err != nil {
		return nil, fromRepo(err, "import")
	}
	if s.teams != nil {
		s.teams.Invalidate()
	}

	s.log.Info("Import complete", "teams", result.Teams, "sessions", result.Sessions,
		"games", result.Games, "penalties", result.Penalties, "migrated_games", result.MigratedGames,
		"settings", settings != nil)
	return result, nil
}

// ImportFromRemote fetches a snapshot from another tracker and imports it.
// An empty url uses the client's current base URL.
func (s *DataService) ImportFromRemote(ctx context.Context, url string) (*models.ImportResult, error) {
	if s.client == nil {
		return nil, errors.Validation("remote import is not available")
	}
	if url = strings.TrimSpace(url); url != "" {
		s.client.SetBaseURL(url)
	}
	if s.client.BaseURL() == "" {
		return nil, errors.Validation("remote tracker URL is required")
	}

	s.log.Info("Fetching remote snapshot", "url", s.client.BaseURL())
	snap, err := s.client.FetchSnapshot(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to fetch remote snapshot")
	}
	return s.Import(ctx, snap)
}

// prepareTeams checks imported teams for ids and names
func prepareTeams(in []models.Team) ([]models.Team, error) {
	teams := make([]models.Team, 0, len(in))
	seen := make(map[string]bool, len(in))
	for i, t := range in {
		t.ID = strings.TrimSpace(t.ID)
		t.Name = strings.TrimSpace(t.Name)
		switch {
		case t.ID == "":
			return nil, errors.Validationf("team #%d has no id", i+1)
		case seen[t.ID]:
			return nil, errors.Validationf("team id %s appears more than once", t.ID)
		case t.Name == "":
			return nil, errors.Validationf("team %s has no name", t.ID)
		}
		seen[t.ID] = true
		if t.Players == nil {
			t.Players = []string{}
		}
		teams = append(teams, t)
	}
	return teams, nil
}

// prepareSessions migrates and validates imported sessions, counting into result
func prepareSessions(in []models.Session, result *models.ImportResult) ([]models.Session, error) {
	sessions := make([]models.Session, 0, len(in))
	seen := make(map[string]bool, len(in))
	for i, sess := range in {
		sess.ID = strings.TrimSpace(sess.ID)
		switch {
		case sess.ID == "":
			return nil, errors.Validationf("session #%d has no id", i+1)
		case seen[sess.ID]:
			return nil, errors.Validationf("session id %s appears more than once", sess.ID)
		}
		seen[sess.ID] = true

		if sess.Status == "" {
			sess.Status = models.SessionActive
		}
		if !sess.Status.Valid() {
			return nil, errors.Validationf("session %s has invalid status %q", sess.ID, sess.Status)
		}

		games := make([]models.Game, len(sess.Games))
		for j, g := range sess.Games {
			migrated, changed, err := migrateGameKeys(g.GameResult)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrValidation, fmt.Sprintf("session %s game %q", sess.ID, g.Name))
			}
			if changed {
				result.MigratedGames++
			}
			g.GameResult = migrated
			g.SessionID = sess.ID
			games[j] = g
		}
		sess.Games = games

		penalties := make([]models.Penalty, len(sess.Penalties))
		for j, p := range sess.Penalties {
			if p.Value > 0 {
				return nil, errors.Validationf("session %s penalty for team %s has positive value %d",
					sess.ID, p.TeamID, p.Value)
			}
			p.SessionID = sess.ID
			penalties[j] = p
		}
		sess.Penalties = penalties

		if _, err := sess.Standings(); err != nil {
			return nil, errors.Wrap(err, errors.ErrValidation, "session "+sess.ID)
		}

		result.Sessions++
		result.Games += len(games)
		result.Penalties += len(penalties)
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

// prepareSettings encodes imported settings, keeping the local base_url
func (s *DataService) prepareSettings(ctx context.Context, in models.Settings) (map[string]string, error) {
	if err := in.Config.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.LeagueName) == "" {
		in.LeagueName = DefaultLeagueName
	}

	values := settingsToMap(in)
	baseURL, err := s.settings.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		values[SettingBaseURL] = baseURL
	}
	return values, nil
}

// migrateGameKeys rewrites bare player-name keys to "teamId::name" using the
// game's team_player_map. A bare name must belong to exactly one team. The
// bool reports whether any key was rewritten.
func migrateGameKeys(g scoring.GameResult) (scoring.GameResult, bool, error) {
	owners := make(map[string][]string)
	teamIDs := make([]string, 0, len(g.TeamPlayerMap))
	for teamID := range g.TeamPlayerMap {
		teamIDs = append(teamIDs, teamID)
	}
	sort.Strings(teamIDs)
	for _, teamID := range teamIDs {
		for _, name := range g.TeamPlayerMap[teamID] {
			owners[name] = append(owners[name], teamID)
		}
	}

	changed := false
	rekey := func(field string, m map[string]int) (map[string]int, error) {
		out := make(map[string]int, len(m))
		for key, v := range m {
			newKey := key
			if _, err := scoring.ParsePlayerKey(key); err != nil {
				teams := owners[key]
				switch len(teams) {
				case 0:
					return nil, errors.Validationf("%s: player %q is not listed in team_player_map", field, key)
				case 1:
					newKey = scoring.PlayerKey{TeamID: teams[0], Name: key}.String()
					changed = true
				default:
					return nil, errors.Validationf("%s: player %q is ambiguous between teams %s",
						field, key, strings.Join(teams, ", "))
				}
			}
			if _, dup := out[newKey]; dup {
				return nil, errors.Validationf("%s: player %s appears more than once", field, newKey)
			}
			out[newKey] = v
		}
		return out, nil
	}

	placements, err := rekey("player_placements", g.PlayerPlacements)
	if err != nil {
		return g, false, err
	}
	points, err := rekey("player_points", g.PlayerPoints)
	if err != nil {
		return g, false, err
	}
	g.PlayerPlacements = placements
	g.PlayerPoints = points
	return g, changed, nil
}
