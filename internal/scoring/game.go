package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abrezinsky/tourneytracker/internal/errors"
)

// Unranked is the representative placement of a team with no players in a
// game. Anything at or above UnrankedThreshold is left off podium displays.
const (
	Unranked          = 999
	UnrankedThreshold = 900
)

// GameResult is one scored game. Player maps are keyed by PlayerKey.String();
// team maps by team id. TeamPlayerMap lists bare player names per team.
type GameResult struct {
	Name             string              `json:"name"`
	PlayerPlacements map[string]int      `json:"player_placements"`
	PlayerPoints     map[string]int      `json:"player_points"`
	TeamPlayerMap    map[string][]string `json:"team_player_map"`
	Points           map[string]int      `json:"points"`
	Placements       map[string]int      `json:"placements"`
}

// FieldSize is the number of ranked players in the game.
func (g *GameResult) FieldSize() int {
	return len(g.PlayerPlacements)
}

// NewGame validates raw placements and scores them.
//
// placements maps "teamId::name" to rank; teamPlayers maps each team id to the
// names that played for it. The placement keys must be exactly the players
// listed in teamPlayers and the ranks must be a permutation of 1..N. Every
// team must belong to sessionTeams. All problems found are reported together
// in a single validation error.
func NewGame(name string, placements map[string]int, teamPlayers map[string][]string, cfg Config, sessionTeams []string) (*GameResult, error) {
	var problems []string

	name = strings.TrimSpace(name)
	if name == "" {
		problems = append(problems, "game name is required")
	}

	inSession := make(map[string]bool, len(sessionTeams))
	for _, id := range sessionTeams {
		inSession[id] = true
	}

	teamIDs := sortedKeys(teamPlayers)
	var outsiders []string
	expected := make(map[string]bool)
	for _, teamID := range teamIDs {
		if !inSession[teamID] {
			outsiders = append(outsiders, teamID)
		}
		seen := make(map[string]bool)
		for _, player := range teamPlayers[teamID] {
			if strings.TrimSpace(player) == "" {
				problems = append(problems, fmt.Sprintf("team %s has an empty player name", teamID))
				continue
			}
			if seen[player] {
				problems = append(problems, fmt.Sprintf("team %s lists player %q more than once", teamID, player))
				continue
			}
			seen[player] = true
			expected[PlayerKey{TeamID: teamID, Name: player}.String()] = true
		}
	}
	if len(outsiders) > 0 {
		problems = append(problems, "teams not in session: "+strings.Join(outsiders, ", "))
	}

	if len(placements) == 0 && len(expected) == 0 {
		problems = append(problems, "game has no players")
	}

	var missing, extra []string
	for key := range expected {
		if _, ok := placements[key]; !ok {
			missing = append(missing, key)
		}
	}
	for key := range placements {
		if !expected[key] {
			extra = append(extra, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		problems = append(problems, "missing placements for: "+strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		problems = append(problems, "placements for unlisted players: "+strings.Join(extra, ", "))
	}

	problems = append(problems, rankProblems(placements)...)

	if len(problems) > 0 {
		return nil, errors.Validation(strings.Join(problems, "; "))
	}

	return score(name, placements, teamPlayers, cfg), nil
}

// score computes the derived maps. Inputs must already be valid.
func score(name string, placements map[string]int, teamPlayers map[string][]string, cfg Config) *GameResult {
	n := len(placements)
	g := &GameResult{
		Name:             name,
		PlayerPlacements: make(map[string]int, n),
		PlayerPoints:     make(map[string]int, n),
		TeamPlayerMap:    make(map[string][]string, len(teamPlayers)),
		Points:           make(map[string]int, len(teamPlayers)),
		Placements:       make(map[string]int, len(teamPlayers)),
	}

	for key, rank := range placements {
		g.PlayerPlacements[key] = rank
		g.PlayerPoints[key] = CalculatePoints(rank, n, cfg)
	}

	for teamID, players := range teamPlayers {
		g.TeamPlayerMap[teamID] = append([]string(nil), players...)
		total, best := 0, Unranked
		for _, player := range players {
			key := PlayerKey{TeamID: teamID, Name: player}.String()
			total += g.PlayerPoints[key]
			if rank, ok := g.PlayerPlacements[key]; ok && rank < best {
				best = rank
			}
		}
		g.Points[teamID] = total
		g.Placements[teamID] = best
	}

	return g
}

// rankProblems checks that the ranks form a permutation of 1..N.
func rankProblems(placements map[string]int) []string {
	n := len(placements)
	if n == 0 {
		return nil
	}

	counts := make(map[int]int, n)
	var outOfRange []int
	for _, rank := range placements {
		if rank < 1 || rank > n {
			outOfRange = append(outOfRange, rank)
			continue
		}
		counts[rank]++
	}

	var dup, missing []int
	for rank := 1; rank <= n; rank++ {
		switch c := counts[rank]; {
		case c == 0:
			missing = append(missing, rank)
		case c > 1:
			dup = append(dup, rank)
		}
	}

	var problems []string
	if len(outOfRange) > 0 {
		sort.Ints(outOfRange)
		problems = append(problems, fmt.Sprintf("ranks out of range 1..%d: %s", n, joinInts(outOfRange)))
	}
	if len(dup) > 0 {
		problems = append(problems, "duplicate ranks: "+joinInts(dup))
	}
	if len(missing) > 0 {
		problems = append(problems, "missing ranks: "+joinInts(missing))
	}
	return problems
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
