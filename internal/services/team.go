package services

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/abrezinsky/tourneytracker/internal/cache"
	"github.com/abrezinsky/tourneytracker/internal/errors"
	"github.com/abrezinsky/tourneytracker/internal/logger"
	"github.com/abrezinsky/tourneytracker/internal/models"
	"github.com/abrezinsky/tourneytracker/internal/repository"
)

// maxTagLength is the longest team tag kept; longer tags are cut
const maxTagLength = 4

// TeamInput holds the editable fields of a team
type TeamInput struct {
	Name    string   `json:"name"`
	Players []string `json:"players"`
	Color   string   `json:"color"`
	Tag     string   `json:"tag"`
}

// TeamMatch is one fuzzy search hit. Matched is the team or player name that
// matched best.
type TeamMatch struct {
	Team     models.Team `json:"team"`
	Matched  string      `json:"matched"`
	Distance int         `json:"distance"`
}

// TeamService handles team-related business logic
type TeamService struct {
	log   logger.Logger
	repo  repository.TeamRepository
	cache *cache.TeamCache
}

// NewTeamService creates a new TeamService. Reads go through teams, which
// is invalidated after every mutation.
func NewTeamService(log logger.Logger, repo repository.TeamRepository, teams *cache.TeamCache) *TeamService {
	return &TeamService{log: log, repo: repo, cache: teams}
}

// ListTeams returns all teams in creation order
func (s *TeamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.cache.All(ctx)
	if err != nil {
		return nil, fromRepo(err, "teams")
	}
	return teams, nil
}

// GetTeam returns a single team
func (s *TeamService) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	team, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "team")
	}
	if !ok {
		return nil, errors.NotFoundf("team %s not found", id)
	}
	return &team, nil
}

// CreateTeam validates and stores a new team
func (s *TeamService) CreateTeam(ctx context.Context, in TeamInput) (*models.Team, error) {
	team, err := normalizeTeam(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateTeam(ctx, &team); err != nil {
		return nil, fromRepo(err, "team")
	}
	s.cache.Invalidate()
	s.log.Info("Team created", "team_id", team.ID, "name", team.Name, "players", len(team.Players))
	return &team, nil
}

// UpdateTeam replaces a team's editable fields. Stored games keep the player
// names they were recorded with.
func (s *TeamService) UpdateTeam(ctx context.Context, id string, in TeamInput) (*models.Team, error) {
	existing, err := s.repo.GetTeam(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "team")
	}
	team, err := normalizeTeam(in)
	if err != nil {
		return nil, err
	}
	team.ID = existing.ID
	team.CreatedAt = existing.CreatedAt

	if err := s.repo.UpdateTeam(ctx, &team); err != nil {
		return nil, fromRepo(err, "team")
	}
	s.cache.Invalidate()
	s.log.Info("Team updated", "team_id", team.ID, "name", team.Name)
	return &team, nil
}

// DeleteTeam removes a team. Sessions and games that reference it are kept
// and show it as unknown.
func (s *TeamService) DeleteTeam(ctx context.Context, id string) error {
	if err := s.repo.DeleteTeam(ctx, id); err != nil {
		return fromRepo(err, "team")
	}
	s.cache.Invalidate()
	s.log.Info("Team deleted", "team_id", id)
	return nil
}

// SearchTeams fuzzy-matches q against team names and player names. Each team
// appears once, at its best distance; closer matches come first.
func (s *TeamService) SearchTeams(ctx context.Context, q string) ([]TeamMatch, error) {
	teams, err := s.ListTeams(ctx)
	if err != nil {
		return nil, err
	}

	q = strings.TrimSpace(q)
	if q == "" {
		matches := make([]TeamMatch, len(teams))
		for i, t := range teams {
			matches[i] = TeamMatch{Team: t, Matched: t.Name}
		}
		return matches, nil
	}

	var targets []string
	var owners []int
	for i, t := range teams {
		targets = append(targets, t.Name)
		owners = append(owners, i)
		for _, p := range t.Players {
			targets = append(targets, p)
			owners = append(owners, i)
		}
	}

	best := make(map[int]TeamMatch)
	for _, r := range fuzzy.RankFindNormalizedFold(q, targets) {
		idx := owners[r.OriginalIndex]
		if m, ok := best[idx]; ok && m.Distance <= r.Distance {
			continue
		}
		best[idx] = TeamMatch{Team: teams[idx], Matched: r.Target, Distance: r.Distance}
	}

	order := make([]int, 0, len(best))
	for idx := range best {
		order = append(order, idx)
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := best[order[i]], best[order[j]]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		return order[i] < order[j]
	})

	matches := make([]TeamMatch, len(order))
	for i, idx := range order {
		matches[i] = best[idx]
	}
	s.log.Debug("Team search", "query", q, "matches", len(matches))
	return matches, nil
}

// normalizeTeam trims and validates team input
func normalizeTeam(in TeamInput) (models.Team, error) {
	team := models.Team{
		Name:  strings.TrimSpace(in.Name),
		Color: strings.TrimSpace(in.Color),
		Tag:   strings.TrimSpace(in.Tag),
	}
	if team.Name == "" {
		return team, errors.Validation("team name is required")
	}

	seen := make(map[string]bool, len(in.Players))
	for _, p := range in.Players {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if seen[p] {
			return team, errors.Validationf("player %q is listed more than once", p)
		}
		seen[p] = true
		team.Players = append(team.Players, p)
	}
	if len(team.Players) == 0 {
		return team, errors.Validation("a team needs at least one player")
	}

	if tag := []rune(team.Tag); len(tag) > maxTagLength {
		team.Tag = string(tag[:maxTagLength])
	}
	return team, nil
}
