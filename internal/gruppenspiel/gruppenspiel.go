// Package gruppenspiel defines the core domain types of a board game session.
// It has no dependencies outside the standard library.
package gruppenspiel

// CurrentSchemaVersion is stamped on every freshly built or migrated state.
const CurrentSchemaVersion = 1

type Team struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Score    int    `json:"score"`
	Position int    `json:"position"`
}

type WinCondition string

const (
	WinFinish            WinCondition = "finish"
	WinPointsAfterRounds WinCondition = "pointsAfterRounds"
)

type MinigameSelection string

const (
	SelectRandom MinigameSelection = "random"
	SelectManual MinigameSelection = "manual"
)

type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseBoard    Phase = "board"
	PhaseMinigame Phase = "minigame"
	PhaseEnd      Phase = "end"
)

func (p Phase) Valid() bool {
	switch p {
	case PhaseSetup, PhaseBoard, PhaseMinigame, PhaseEnd:
		return true
	}
	return false
}

type GameSettings struct {
	WinCondition       WinCondition      `json:"winCondition"`
	BoardLength        int               `json:"boardLength"`
	MaxRounds          int               `json:"maxRounds"`
	DiceOptions        []int             `json:"diceOptions"`
	MinigameSelection  MinigameSelection `json:"minigameSelection"`
	EnabledMinigameIDs []string          `json:"enabledMinigameIds"`
	MapID              string            `json:"mapId,omitempty"`
}

// DefaultSettings is the configuration used on first launch and when a
// legacy save carries no usable settings.
func DefaultSettings() GameSettings {
	return GameSettings{
		WinCondition:       WinFinish,
		BoardLength:        20,
		MaxRounds:          10,
		DiceOptions:        []int{6},
		MinigameSelection:  SelectRandom,
		EnabledMinigameIDs: []string{},
	}
}

// Dice returns the admissible die face counts, falling back to a single d6.
func (s GameSettings) Dice() []int {
	if len(s.DiceOptions) == 0 {
		return []int{6}
	}
	return s.DiceOptions
}

// MinigameEnabled reports whether id is in the enabled pool.
func (s GameSettings) MinigameEnabled(id string) bool {
	for _, enabled := range s.EnabledMinigameIDs {
		if enabled == id {
			return true
		}
	}
	return false
}

func (s GameSettings) Clone() GameSettings {
	out := s
	out.DiceOptions = append([]int(nil), s.DiceOptions...)
	out.EnabledMinigameIDs = append([]string{}, s.EnabledMinigameIDs...)
	return out
}

type TileType string

const (
	TileNormal   TileType = "normal"
	TileMinigame TileType = "minigame"
	TileBonus    TileType = "bonus"
	TilePenalty  TileType = "penalty"
)

func (t TileType) Valid() bool {
	switch t {
	case TileNormal, TileMinigame, TileBonus, TilePenalty:
		return true
	}
	return false
}

type Tile struct {
	Index int      `json:"index"`
	Type  TileType `json:"type"`
	Value *int     `json:"value,omitempty"`
}

// ValueOr returns the tile's point delta or def when none is set.
func (t Tile) ValueOr(def int) int {
	if t.Value == nil {
		return def
	}
	return *t.Value
}

type MapDefinition struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Length int    `json:"length"`
	Tiles  []Tile `json:"tiles"`
}

// LastIndex is the index of the finish tile.
func (m MapDefinition) LastIndex() int {
	return len(m.Tiles) - 1
}

func (m MapDefinition) TileAt(index int) (Tile, bool) {
	for _, t := range m.Tiles {
		if t.Index == index {
			return t, true
		}
	}
	return Tile{}, false
}

func (m MapDefinition) Clone() MapDefinition {
	out := m
	out.Tiles = make([]Tile, len(m.Tiles))
	for i, t := range m.Tiles {
		if t.Value != nil {
			v := *t.Value
			t.Value = &v
		}
		out.Tiles[i] = t
	}
	return out
}

// LastAction is the single-level undo record written by a dice roll.
type LastAction struct {
	TeamIndex        int `json:"teamIndex"`
	PreviousPosition int `json:"previousPosition"`
	PreviousScore    int `json:"previousScore"`
	DiceRoll         int `json:"diceRoll"`
}

type GameState struct {
	SchemaVersion    int            `json:"schemaVersion"`
	Phase            Phase          `json:"phase"`
	Settings         GameSettings   `json:"settings"`
	Teams            []Team         `json:"teams"`
	CurrentTeamIndex int            `json:"currentTeamIndex"`
	Round            int            `json:"round"`
	ActiveMinigameID string         `json:"activeMinigameId,omitempty"`
	LastAction       *LastAction    `json:"lastAction,omitempty"`
	Map              *MapDefinition `json:"map,omitempty"`
}

func (s GameState) CurrentTeam() (Team, bool) {
	if s.CurrentTeamIndex < 0 || s.CurrentTeamIndex >= len(s.Teams) {
		return Team{}, false
	}
	return s.Teams[s.CurrentTeamIndex], true
}

func (s GameState) TeamByID(id string) (Team, bool) {
	for _, t := range s.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// Clone returns a deep copy sharing no slices or pointers with s.
func (s GameState) Clone() GameState {
	out := s
	out.Settings = s.Settings.Clone()
	out.Teams = append([]Team{}, s.Teams...)
	if s.LastAction != nil {
		la := *s.LastAction
		out.LastAction = &la
	}
	if s.Map != nil {
		m := s.Map.Clone()
		out.Map = &m
	}
	return out
}
