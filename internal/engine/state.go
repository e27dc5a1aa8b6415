package engine

import "github.com/playperu/gruppenspiel/internal/gruppenspiel"

// NewGameState builds a fresh session in the setup phase. A non-empty mapID
// and a non-nil enabledMinigameIDs override the values embedded in settings.
// The result shares no slices with the arguments.
func NewGameState(settings gruppenspiel.GameSettings, teams []gruppenspiel.Team, mapID string, enabledMinigameIDs []string) gruppenspiel.GameState {
	s := settings.Clone()
	if mapID != "" {
		s.MapID = mapID
	}
	if enabledMinigameIDs != nil {
		s.EnabledMinigameIDs = append([]string{}, enabledMinigameIDs...)
	}

	return gruppenspiel.GameState{
		SchemaVersion:    gruppenspiel.CurrentSchemaVersion,
		Phase:            gruppenspiel.PhaseSetup,
		Settings:         s,
		Teams:            append([]gruppenspiel.Team{}, teams...),
		CurrentTeamIndex: 0,
		Round:            1,
	}
}

// DefaultGameState is the empty session shown on first launch and after a
// reset.
func DefaultGameState() gruppenspiel.GameState {
	return NewGameState(gruppenspiel.DefaultSettings(), nil, "", nil)
}
