package persist

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("team-%d", n)
	}
}

func TestMigrateEmptyObject(t *testing.T) {
	got, err := Migrator{NewID: seqIDs()}.Migrate(decode(t, `{}`))
	require.NoError(t, err)

	assert.Equal(t, gruppenspiel.GameState{
		SchemaVersion:    1,
		Phase:            gruppenspiel.PhaseSetup,
		Settings:         gruppenspiel.DefaultSettings(),
		Teams:            []gruppenspiel.Team{},
		CurrentTeamIndex: 0,
		Round:            1,
	}, got)
}

func TestMigrateCurrentIsUnchanged(t *testing.T) {
	in := `{
		"schemaVersion": 1,
		"phase": "board",
		"settings": {"winCondition": "pointsAfterRounds", "boardLength": 30, "maxRounds": 4,
			"diceOptions": [4, 8], "minigameSelection": "manual", "enabledMinigameIds": ["a"]},
		"teams": [],
		"currentTeamIndex": 0,
		"round": 1
	}`
	got, err := Migrate(decode(t, in))
	require.NoError(t, err)

	var want gruppenspiel.GameState
	require.NoError(t, json.Unmarshal([]byte(in), &want))
	assert.Equal(t, want, got)
}

func TestMigrateLegacyTeams(t *testing.T) {
	in := `{
		"teams": [
			{"id": "keep", "name": "Keep", "color": "#123456", "score": 5, "position": 3},
			{"score": "lots", "position": null},
			"garbage"
		],
		"currentTeamIndex": null,
		"settings": {"winCondition": "finish", "boardLength": 25, "diceOptions": []}
	}`
	got, err := Migrator{NewID: seqIDs()}.Migrate(decode(t, in))
	require.NoError(t, err)

	assert.Equal(t, gruppenspiel.PhaseBoard, got.Phase, "inferred from progress")
	assert.Equal(t, []gruppenspiel.Team{
		{ID: "keep", Name: "Keep", Color: "#123456", Score: 5, Position: 3},
		{ID: "team-1", Name: "Unknown Team", Color: "#000000"},
		{ID: "team-2", Name: "Unknown Team", Color: "#000000"},
	}, got.Teams)
	assert.Equal(t, 25, got.Settings.BoardLength, "kept")
	assert.Equal(t, 10, got.Settings.MaxRounds)
	assert.Equal(t, []int{6}, got.Settings.DiceOptions)
	assert.Equal(t, 1, got.Round)
	assert.Equal(t, 0, got.CurrentTeamIndex)
}

func TestMigrateLegacyNulls(t *testing.T) {
	in := `{
		"teams": [],
		"phase": null,
		"currentTeamIndex": null,
		"round": null,
		"settings": {"winCondition": "finish", "boardLength": 20, "maxRounds": null, "diceOptions": [6]}
	}`
	got, err := Migrate(decode(t, in))
	require.NoError(t, err)

	assert.Equal(t, gruppenspiel.PhaseSetup, got.Phase)
	assert.Equal(t, 0, got.CurrentTeamIndex)
	assert.Equal(t, 1, got.Round)
	assert.Equal(t, 10, got.Settings.MaxRounds)
}

func TestMigrateMalformedSettingsReplaced(t *testing.T) {
	got, err := Migrate(decode(t, `{"settings": "oops", "phase": "end"}`))
	require.NoError(t, err)
	assert.Equal(t, gruppenspiel.DefaultSettings(), got.Settings)
	assert.Equal(t, gruppenspiel.PhaseEnd, got.Phase)
}

func TestMigrateIdleTeamsInferSetup(t *testing.T) {
	got, err := Migrate(decode(t, `{"teams": [{"id": "a", "name": "A"}]}`))
	require.NoError(t, err)
	assert.Equal(t, gruppenspiel.PhaseSetup, got.Phase)
}

func TestMigrateDoesNotTouchInput(t *testing.T) {
	raw := decode(t, `{"settings": {"boardLength": 12}}`)
	_, err := Migrate(raw)
	require.NoError(t, err)
	assert.Equal(t, decode(t, `{"settings": {"boardLength": 12}}`), raw)
}

func TestMigrateFailures(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"not an object", `[1, 2]`, ErrInvalidSave},
		{"null", `null`, ErrInvalidSave},
		{"future version", `{"schemaVersion": 2}`, ErrUnsupportedVersion},
		{"v1 missing teams", `{"schemaVersion": 1, "phase": "board", "settings": {}, "currentTeamIndex": 0, "round": 1}`, ErrInvalidSave},
		{"v1 bad round", `{"schemaVersion": 1, "phase": "board", "settings": {}, "teams": [], "currentTeamIndex": 0, "round": "one"}`, ErrInvalidSave},
		{"unknown phase", `{"phase": "lobby"}`, ErrInvalidSave},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Migrate(decode(t, tt.in))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMigrateClampsTeamIndex(t *testing.T) {
	got, err := Migrate(decode(t, `{"teams": [{"id": "a"}], "currentTeamIndex": 4}`))
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentTeamIndex)
}

func TestVersionOf(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{nil, 0},
		{"1", 0},
		{1.5, 0},
		{-1.0, 0},
		{1.0, 1},
		{3, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, versionOf(tt.in), "%v", tt.in)
	}
}
