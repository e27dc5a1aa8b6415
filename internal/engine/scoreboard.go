package engine

import (
	"cmp"
	"slices"

	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
)

// Scoreboard ranks teams for the end screen. Finish games rank by position
// then score, points games by score then position. Ties keep turn order.
func Scoreboard(settings gruppenspiel.GameSettings, teams []gruppenspiel.Team) []gruppenspiel.Team {
	out := slices.Clone(teams)
	byPosition := settings.WinCondition != gruppenspiel.WinPointsAfterRounds
	slices.SortStableFunc(out, func(a, b gruppenspiel.Team) int {
		score, position := cmp.Compare(b.Score, a.Score), cmp.Compare(b.Position, a.Position)
		if byPosition {
			return cmp.Or(position, score)
		}
		return cmp.Or(score, position)
	})
	return out
}

// Winner is the top of the scoreboard.
func Winner(settings gruppenspiel.GameSettings, teams []gruppenspiel.Team) (gruppenspiel.Team, bool) {
	board := Scoreboard(settings, teams)
	if len(board) == 0 {
		return gruppenspiel.Team{}, false
	}
	return board[0], true
}
