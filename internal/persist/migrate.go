package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
)

var (
	ErrInvalidSave        = errors.New("invalid save")
	ErrUnsupportedVersion = errors.New("unsupported save version")
)

// Migrator upgrades untyped save documents to the current schema.
type Migrator struct {
	// NewID names teams that were saved without an id. Defaults to uuid.
	NewID func() string
}

// step upgrades a document from one schema version to the next. Steps
// mutate doc in place; Migrate hands them a private copy.
type step struct {
	from, to int
	apply    func(doc map[string]any, newID func() string)
}

var steps = []step{
	{from: 0, to: 1, apply: upgradeV0},
}

// Migrate upgrades with the default id generator.
func Migrate(raw any) (gruppenspiel.GameState, error) {
	return Migrator{}.Migrate(raw)
}

// Migrate accepts a decoded JSON document of any vintage and returns a
// validated state at CurrentSchemaVersion.
func (m Migrator) Migrate(raw any) (gruppenspiel.GameState, error) {
	state, _, err := m.migrate(raw)
	return state, err
}

// migrate also reports the version the document was saved with.
func (m Migrator) migrate(raw any) (gruppenspiel.GameState, int, error) {
	src, ok := raw.(map[string]any)
	if !ok {
		return gruppenspiel.GameState{}, 0, fmt.Errorf("%w: document is %T, not an object", ErrInvalidSave, raw)
	}
	newID := m.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	doc := make(map[string]any, len(src))
	for k, v := range src {
		doc[k] = v
	}

	from := versionOf(doc["schemaVersion"])
	if from > gruppenspiel.CurrentSchemaVersion {
		return gruppenspiel.GameState{}, from, fmt.Errorf("%w: %d", ErrUnsupportedVersion, from)
	}
	for v := from; v < gruppenspiel.CurrentSchemaVersion; {
		s, ok := stepFrom(v)
		if !ok {
			return gruppenspiel.GameState{}, from, fmt.Errorf("%w: no upgrade from version %d", ErrUnsupportedVersion, v)
		}
		s.apply(doc, newID)
		doc["schemaVersion"] = s.to
		v = s.to
	}

	if err := validate(doc); err != nil {
		return gruppenspiel.GameState{}, from, err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return gruppenspiel.GameState{}, from, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	var state gruppenspiel.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return gruppenspiel.GameState{}, from, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	normalize(&state)
	return state, from, nil
}

func stepFrom(v int) (step, bool) {
	for _, s := range steps {
		if s.from == v {
			return s, true
		}
	}
	return step{}, false
}

// versionOf treats anything but a non-negative whole number as version 0.
func versionOf(v any) int {
	switch n := v.(type) {
	case float64:
		if n >= 0 && n == math.Trunc(n) {
			return int(n)
		}
	case int:
		if n >= 0 {
			return n
		}
	}
	return 0
}

func upgradeV0(doc map[string]any, newID func() string) {
	var teams []any
	if raw, ok := doc["teams"].([]any); ok {
		teams = make([]any, 0, len(raw))
		for _, entry := range raw {
			teams = append(teams, normalizeTeam(entry, newID))
		}
	} else {
		teams = []any{}
	}
	doc["teams"] = teams

	if absent(doc, "phase") {
		doc["phase"] = string(inferPhase(teams))
	}

	if settings, ok := doc["settings"].(map[string]any); ok {
		s := make(map[string]any, len(settings))
		for k, v := range settings {
			s[k] = v
		}
		if absent(s, "maxRounds") {
			s["maxRounds"] = 10
		}
		if dice, ok := s["diceOptions"].([]any); !ok || len(dice) == 0 {
			s["diceOptions"] = []any{6}
		}
		doc["settings"] = s
	} else {
		doc["settings"] = defaultSettingsDoc()
	}

	if absent(doc, "currentTeamIndex") {
		doc["currentTeamIndex"] = 0
	}
	if absent(doc, "round") {
		doc["round"] = 1
	}
}

// absent treats null like a missing key. Legacy saves wrote NaN counters,
// which JSON encodes as null.
func absent(doc map[string]any, key string) bool {
	v, ok := doc[key]
	return !ok || v == nil
}

func normalizeTeam(entry any, newID func() string) map[string]any {
	src, _ := entry.(map[string]any)
	team := make(map[string]any, 5)

	if id, ok := src["id"].(string); ok && id != "" {
		team["id"] = id
	} else {
		team["id"] = newID()
	}
	if name, ok := src["name"].(string); ok {
		team["name"] = name
	} else {
		team["name"] = "Unknown Team"
	}
	if color, ok := src["color"].(string); ok {
		team["color"] = color
	} else {
		team["color"] = "#000000"
	}
	team["score"] = wholeOrZero(src["score"])
	team["position"] = wholeOrZero(src["position"])
	return team
}

func wholeOrZero(v any) int {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

func inferPhase(teams []any) gruppenspiel.Phase {
	for _, t := range teams {
		team := t.(map[string]any)
		if team["score"] != 0 || team["position"] != 0 {
			return gruppenspiel.PhaseBoard
		}
	}
	return gruppenspiel.PhaseSetup
}

func defaultSettingsDoc() map[string]any {
	d := gruppenspiel.DefaultSettings()
	return map[string]any{
		"winCondition":       string(d.WinCondition),
		"boardLength":        d.BoardLength,
		"maxRounds":          d.MaxRounds,
		"diceOptions":        []any{6},
		"minigameSelection":  string(d.MinigameSelection),
		"enabledMinigameIds": []any{},
	}
}

// validate checks the keys every current-version state must carry.
func validate(doc map[string]any) error {
	isNumber := func(v any) bool {
		switch v.(type) {
		case float64, int:
			return true
		}
		return false
	}

	switch {
	case !isNumber(doc["schemaVersion"]):
		return fmt.Errorf("%w: schemaVersion", ErrInvalidSave)
	case !isNumber(doc["currentTeamIndex"]):
		return fmt.Errorf("%w: currentTeamIndex", ErrInvalidSave)
	case !isNumber(doc["round"]):
		return fmt.Errorf("%w: round", ErrInvalidSave)
	}
	if _, ok := doc["teams"].([]any); !ok {
		return fmt.Errorf("%w: teams", ErrInvalidSave)
	}
	if _, ok := doc["settings"].(map[string]any); !ok {
		return fmt.Errorf("%w: settings", ErrInvalidSave)
	}
	phase, _ := doc["phase"].(string)
	if !gruppenspiel.Phase(phase).Valid() {
		return fmt.Errorf("%w: phase %v", ErrInvalidSave, doc["phase"])
	}
	return nil
}

// normalize fills the gaps that a valid document may still leave.
func normalize(s *gruppenspiel.GameState) {
	if s.Teams == nil {
		s.Teams = []gruppenspiel.Team{}
	}
	if s.Settings.EnabledMinigameIDs == nil {
		s.Settings.EnabledMinigameIDs = []string{}
	}
	if len(s.Teams) > 0 && (s.CurrentTeamIndex < 0 || s.CurrentTeamIndex >= len(s.Teams)) {
		s.CurrentTeamIndex = 0
	}
}
