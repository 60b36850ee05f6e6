package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrezinsky/tourneytracker/internal/errors"
)

func TestSessionScores_ScenarioA(t *testing.T) {
	standings, err := SessionScores([]string{"X", "Y", "Z"}, []GameResult{*scenarioA(t)}, nil)
	require.NoError(t, err)

	assert.Equal(t, []Standing{
		{TeamID: "X", GamePoints: 6, Total: 6},
		{TeamID: "Y", GamePoints: 3, Total: 3},
		{TeamID: "Z", GamePoints: 1, Total: 1},
	}, standings)
}

func TestSessionScores_ScenarioC_Penalty(t *testing.T) {
	standings, err := SessionScores(
		[]string{"X", "Y", "Z"},
		[]GameResult{*scenarioA(t)},
		[]Penalty{{TeamID: "X", Value: -2}},
	)
	require.NoError(t, err)

	assert.Equal(t, []Standing{
		{TeamID: "X", GamePoints: 6, PenaltyPoints: -2, Total: 4},
		{TeamID: "Y", GamePoints: 3, Total: 3},
		{TeamID: "Z", GamePoints: 1, Total: 1},
	}, standings)
}

func TestSessionScores_PenaltyReorders(t *testing.T) {
	standings, err := SessionScores(
		[]string{"X", "Y", "Z"},
		[]GameResult{*scenarioA(t)},
		[]Penalty{{TeamID: "X", Value: -4}},
	)
	require.NoError(t, err)

	assert.Equal(t, "Y", standings[0].TeamID)
	assert.Equal(t, "X", standings[1].TeamID)
	assert.Equal(t, 2, standings[1].Total)
}

func TestSessionScores_TeamsWithoutGamesAppearWithZeros(t *testing.T) {
	standings, err := SessionScores([]string{"a", "b", "c"}, nil, nil)
	require.NoError(t, err)

	require.Len(t, standings, 3)
	for i, id := range []string{"a", "b", "c"} {
		assert.Equal(t, Standing{TeamID: id}, standings[i])
	}
}

func TestSessionScores_TiesKeepTeamOrder(t *testing.T) {
	g := GameResult{Name: "g", Points: map[string]int{"c": 2, "a": 2, "b": 5}}
	standings, err := SessionScores([]string{"c", "a", "b"}, []GameResult{g}, nil)
	require.NoError(t, err)

	ids := []string{standings[0].TeamID, standings[1].TeamID, standings[2].TeamID}
	assert.Equal(t, []string{"b", "c", "a"}, ids)
}

func TestSessionScores_DuplicateTeamIDsCollapse(t *testing.T) {
	standings, err := SessionScores([]string{"a", "b", "a"}, nil, nil)
	require.NoError(t, err)
	assert.Len(t, standings, 2)
}

func TestSessionScores_Idempotent(t *testing.T) {
	teams := []string{"X", "Y", "Z"}
	games := []GameResult{*scenarioA(t), *scenarioA(t)}
	penalties := []Penalty{{TeamID: "Z", Value: -1}}

	first, err := SessionScores(teams, games, penalties)
	require.NoError(t, err)
	second, err := SessionScores(teams, games, penalties)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"X", "Y", "Z"}, teams, "input must not be reordered")
}

func TestSessionScores_GameSumLaw(t *testing.T) {
	g := scenarioA(t)
	standings, err := SessionScores([]string{"X", "Y", "Z"}, []GameResult{*g}, nil)
	require.NoError(t, err)

	gameSum := 0
	for _, st := range standings {
		gameSum += st.GamePoints
	}
	want := 0
	for _, rank := range g.PlayerPlacements {
		want += CalculatePoints(rank, g.FieldSize(), DefaultConfig())
	}
	assert.Equal(t, want, gameSum)
}

func TestSessionScores_InvariantViolations(t *testing.T) {
	t.Run("game for team outside session", func(t *testing.T) {
		g := GameResult{Name: "g", Points: map[string]int{"a": 4, "ghost": 1}}
		_, err := SessionScores([]string{"a", "b"}, []GameResult{g}, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvariant))
		assert.Contains(t, err.Error(), "ghost")
	})

	t.Run("penalty for team outside session", func(t *testing.T) {
		_, err := SessionScores([]string{"a", "b"}, nil, []Penalty{{TeamID: "ghost", Value: -1}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvariant))
	})

	t.Run("ranks not a permutation", func(t *testing.T) {
		g := GameResult{
			Name:             "g",
			PlayerPlacements: map[string]int{"a::P1": 1, "b::P2": 1},
			Points:           map[string]int{"a": 4, "b": 4},
		}
		_, err := SessionScores([]string{"a", "b"}, []GameResult{g}, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvariant))
		assert.Contains(t, err.Error(), "duplicate ranks: 1")
	})
}
