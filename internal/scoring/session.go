package scoring

import (
	"sort"
	"strings"

	"github.com/abrezinsky/tourneytracker/internal/errors"
)

// Penalty is the scoring view of a penalty: a team and a (normally
// non-positive) value.
type Penalty struct {
	TeamID string
	Value  int
}

// Standing is one team's computed score within a session
type Standing struct {
	TeamID        string `json:"team_id"`
	GamePoints    int    `json:"game_points"`
	PenaltyPoints int    `json:"penalty_points"`
	Total         int    `json:"total"`
}

// SessionScores folds games and penalties into standings.
//
// Every id in teamIDs appears exactly once, with zeros if it scored nothing.
// Standings are ordered by Total descending; ties keep teamIDs order.
// A game or penalty naming a team outside teamIDs, or a game whose ranks are
// not a permutation of 1..N, is an invariant violation.
func SessionScores(teamIDs []string, games []GameResult, penalties []Penalty) ([]Standing, error) {
	standings := make([]Standing, 0, len(teamIDs))
	index := make(map[string]int, len(teamIDs))
	for _, id := range teamIDs {
		if _, dup := index[id]; dup {
			continue
		}
		index[id] = len(standings)
		standings = append(standings, Standing{TeamID: id})
	}

	for _, g := range games {
		if problems := rankProblems(g.PlayerPlacements); len(problems) > 0 {
			return nil, errors.Invariantf("game %q has invalid ranks: %s", g.Name, strings.Join(problems, "; "))
		}
		// Map iteration order does not matter for sums, but sorting keeps the
		// reported offender deterministic.
		for _, teamID := range sortedKeys(g.Points) {
			i, ok := index[teamID]
			if !ok {
				return nil, errors.Invariantf("game %q awards points to team %s outside the session", g.Name, teamID)
			}
			standings[i].GamePoints += g.Points[teamID]
		}
	}

	for _, p := range penalties {
		i, ok := index[p.TeamID]
		if !ok {
			return nil, errors.Invariantf("penalty targets team %s outside the session", p.TeamID)
		}
		standings[i].PenaltyPoints += p.Value
	}

	for i := range standings {
		standings[i].Total = standings[i].GamePoints + standings[i].PenaltyPoints
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Total > standings[j].Total
	})

	return standings, nil
}
