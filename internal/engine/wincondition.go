package engine

import "github.com/playperu/gruppenspiel/internal/gruppenspiel"

// ShouldEnd reports whether the session is over. For the finish condition
// the finish index comes from m when it has tiles and from the board length
// setting otherwise.
func ShouldEnd(settings gruppenspiel.GameSettings, teams []gruppenspiel.Team, currentRound int, m *gruppenspiel.MapDefinition) bool {
	switch settings.WinCondition {
	case gruppenspiel.WinFinish:
		finish := settings.BoardLength
		if m != nil && len(m.Tiles) > 0 {
			finish = m.LastIndex()
		}
		for _, t := range teams {
			if t.Position >= finish {
				return true
			}
		}
		return false
	case gruppenspiel.WinPointsAfterRounds:
		return currentRound > settings.MaxRounds
	default:
		return false
	}
}

// StateShouldEnd is ShouldEnd over a whole state.
func StateShouldEnd(s gruppenspiel.GameState) bool {
	return ShouldEnd(s.Settings, s.Teams, s.Round, s.Map)
}
