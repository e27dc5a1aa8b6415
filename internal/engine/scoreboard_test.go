package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
)

func ids(teams []gruppenspiel.Team) []string {
	out := make([]string, len(teams))
	for i, t := range teams {
		out[i] = t.ID
	}
	return out
}

func TestScoreboard(t *testing.T) {
	teams := []gruppenspiel.Team{
		{ID: "a", Score: 10, Position: 5},
		{ID: "b", Score: 30, Position: 5},
		{ID: "c", Score: 20, Position: 9},
		{ID: "d", Score: 10, Position: 5},
	}

	finish := gruppenspiel.DefaultSettings()
	assert.Equal(t, []string{"c", "b", "a", "d"}, ids(Scoreboard(finish, teams)))

	points := finish
	points.WinCondition = gruppenspiel.WinPointsAfterRounds
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(Scoreboard(points, teams)))

	assert.Equal(t, "a", teams[0].ID, "input reordered")

	w, ok := Winner(points, teams)
	assert.True(t, ok)
	assert.Equal(t, "b", w.ID)

	_, ok = Winner(points, nil)
	assert.False(t, ok)
}

func TestScoreboardExtremeValues(t *testing.T) {
	teams := []gruppenspiel.Team{
		{ID: "low", Score: math.MinInt, Position: math.MinInt},
		{ID: "high", Score: math.MaxInt, Position: math.MaxInt},
		{ID: "zero"},
	}

	finish := gruppenspiel.DefaultSettings()
	assert.Equal(t, []string{"high", "zero", "low"}, ids(Scoreboard(finish, teams)))

	points := finish
	points.WinCondition = gruppenspiel.WinPointsAfterRounds
	assert.Equal(t, []string{"high", "zero", "low"}, ids(Scoreboard(points, teams)))
}
