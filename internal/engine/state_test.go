package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
)

func TestNewGameState(t *testing.T) {
	settings := gruppenspiel.DefaultSettings()
	settings.MapID = "from-settings"
	settings.EnabledMinigameIDs = []string{"a"}
	teams := []gruppenspiel.Team{{ID: "t1", Name: "One"}}

	s := NewGameState(settings, teams, "explicit", []string{"b", "c"})

	assert.Equal(t, gruppenspiel.CurrentSchemaVersion, s.SchemaVersion)
	assert.Equal(t, gruppenspiel.PhaseSetup, s.Phase)
	assert.Equal(t, 0, s.CurrentTeamIndex)
	assert.Equal(t, 1, s.Round)
	assert.Empty(t, s.ActiveMinigameID)
	assert.Nil(t, s.LastAction)
	assert.Equal(t, "explicit", s.Settings.MapID)
	assert.Equal(t, []string{"b", "c"}, s.Settings.EnabledMinigameIDs)

	teams[0].Name = "Changed"
	settings.DiceOptions[0] = 20
	assert.Equal(t, "One", s.Teams[0].Name, "teams aliased")
	assert.Equal(t, []int{6}, s.Settings.DiceOptions, "settings aliased")
}

func TestNewGameStateKeepsSettingsWithoutOverrides(t *testing.T) {
	settings := gruppenspiel.DefaultSettings()
	settings.MapID = "kept"
	settings.EnabledMinigameIDs = []string{"a"}

	s := NewGameState(settings, nil, "", nil)
	assert.Equal(t, "kept", s.Settings.MapID)
	assert.Equal(t, []string{"a"}, s.Settings.EnabledMinigameIDs)
	assert.NotNil(t, s.Teams)
}
