package scoring

import (
	"sort"

	"github.com/abrezinsky/tourneytracker/internal/errors"
)

// SessionInput is the scoring view of a stored session
type SessionInput struct {
	ID        string
	Completed bool
	TeamIDs   []string
	Games     []GameResult
	Penalties []Penalty
}

// LeaderboardEntry is a team's aggregate over all completed sessions
type LeaderboardEntry struct {
	TeamID      string `json:"team_id"`
	TotalPoints int    `json:"total_points"`
	Wins        int    `json:"wins"`
	Sessions    int    `json:"sessions"`
}

// Leaderboard aggregates completed sessions into all-time standings.
//
// Sessions that are not completed are skipped. Each team in a completed
// session gains its session total and one session played; the first standing
// of each session gains a win. Teams that never played a completed session are
// absent. Entries are ordered by TotalPoints descending, ties keeping the
// order in which teams first appeared in a session's team list.
func Leaderboard(sessions []SessionInput) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	index := make(map[string]int)

	for _, s := range sessions {
		if !s.Completed {
			continue
		}

		standings, err := SessionScores(s.TeamIDs, s.Games, s.Penalties)
		if err != nil {
			return nil, errors.Wrap(err, errors.KindOf(err), "session "+s.ID)
		}

		// Entries are created in roster order so ties follow team_ids, not
		// the session's own ranking.
		for _, id := range s.TeamIDs {
			if _, ok := index[id]; !ok {
				index[id] = len(entries)
				entries = append(entries, LeaderboardEntry{TeamID: id})
			}
		}

		for _, st := range standings {
			i := index[st.TeamID]
			entries[i].TotalPoints += st.Total
			entries[i].Sessions++
		}

		if len(standings) > 0 {
			entries[index[standings[0].TeamID]].Wins++
		}
	}

	if entries == nil {
		entries = []LeaderboardEntry{}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalPoints > entries[j].TotalPoints
	})

	return entries, nil
}
