package engine

import "github.com/playperu/gruppenspiel/internal/gruppenspiel"

// Action is a state transition request. The set of actions is closed; use
// the concrete types below.
type Action interface {
	// Type is the wire name of the action, e.g. "ROLL_DICE".
	Type() string
	isAction()
}

const (
	TypeStartGame         = "START_GAME"
	TypeSetPhase          = "SET_PHASE"
	TypeUpdateSettings    = "UPDATE_SETTINGS"
	TypeSetMap            = "SET_MAP"
	TypeAddTeam           = "ADD_TEAM"
	TypeRemoveTeam        = "REMOVE_TEAM"
	TypeUpdateTeam        = "UPDATE_TEAM"
	TypeNextTeam          = "NEXT_TEAM"
	TypeRollDice          = "ROLL_DICE"
	TypeMoveTeam          = "MOVE_TEAM"
	TypeUpdateScore       = "UPDATE_SCORE"
	TypeStartMinigame     = "START_MINIGAME"
	TypeSetActiveMinigame = "SET_ACTIVE_MINIGAME"
	TypeEndMinigame       = "END_MINIGAME"
	TypeNextRound         = "NEXT_ROUND"
	TypeUndoLastAction    = "UNDO_LAST_ACTION"
	TypeEndGame           = "END_GAME"
	TypeResetState        = "RESET_STATE"
)

type StartGame struct{}

type SetPhase struct {
	Phase gruppenspiel.Phase
}

// SettingsPatch is merged field by field; nil fields are left untouched.
type SettingsPatch struct {
	WinCondition       *gruppenspiel.WinCondition      `json:"winCondition,omitempty"`
	BoardLength        *int                            `json:"boardLength,omitempty"`
	MaxRounds          *int                            `json:"maxRounds,omitempty"`
	DiceOptions        []int                           `json:"diceOptions"`
	MinigameSelection  *gruppenspiel.MinigameSelection `json:"minigameSelection,omitempty"`
	EnabledMinigameIDs []string                        `json:"enabledMinigameIds"`
	MapID              *string                         `json:"mapId,omitempty"`
}

type UpdateSettings struct {
	Patch SettingsPatch
}

type SetMap struct {
	Map  gruppenspiel.MapDefinition
	Seed string
}

type AddTeam struct {
	Team gruppenspiel.Team
}

type RemoveTeam struct {
	TeamID string
}

// TeamPatch is merged into a team; nil fields are left untouched.
type TeamPatch struct {
	Name     *string `json:"name,omitempty"`
	Color    *string `json:"color,omitempty"`
	Score    *int    `json:"score,omitempty"`
	Position *int    `json:"position,omitempty"`
}

type UpdateTeam struct {
	TeamID string
	Patch  TeamPatch
}

type NextTeam struct{}

type RollDice struct {
	Roll int
}

type MoveTeam struct {
	TeamID   string
	Position int
}

// UpdateScore sets an absolute score, not a delta.
type UpdateScore struct {
	TeamID string
	Score  int
}

// StartMinigame enters the minigame phase. An empty MinigameID hands the
// pick over to manual selection.
type StartMinigame struct {
	MinigameID string
}

type SetActiveMinigame struct {
	MinigameID string
}

type EndMinigame struct{}

type NextRound struct{}

type UndoLastAction struct{}

type EndGame struct{}

type ResetState struct {
	State gruppenspiel.GameState
}

// UnknownAction carries an unrecognised wire type. Reducing it is a no-op.
type UnknownAction struct {
	Name string
}

func (StartGame) Type() string         { return TypeStartGame }
func (SetPhase) Type() string          { return TypeSetPhase }
func (UpdateSettings) Type() string    { return TypeUpdateSettings }
func (SetMap) Type() string            { return TypeSetMap }
func (AddTeam) Type() string           { return TypeAddTeam }
func (RemoveTeam) Type() string        { return TypeRemoveTeam }
func (UpdateTeam) Type() string        { return TypeUpdateTeam }
func (NextTeam) Type() string          { return TypeNextTeam }
func (RollDice) Type() string          { return TypeRollDice }
func (MoveTeam) Type() string          { return TypeMoveTeam }
func (UpdateScore) Type() string       { return TypeUpdateScore }
func (StartMinigame) Type() string     { return TypeStartMinigame }
func (SetActiveMinigame) Type() string { return TypeSetActiveMinigame }
func (EndMinigame) Type() string       { return TypeEndMinigame }
func (NextRound) Type() string         { return TypeNextRound }
func (UndoLastAction) Type() string    { return TypeUndoLastAction }
func (EndGame) Type() string           { return TypeEndGame }
func (ResetState) Type() string        { return TypeResetState }
func (a UnknownAction) Type() string   { return a.Name }

func (StartGame) isAction()         {}
func (SetPhase) isAction()          {}
func (UpdateSettings) isAction()    {}
func (SetMap) isAction()            {}
func (AddTeam) isAction()           {}
func (RemoveTeam) isAction()        {}
func (UpdateTeam) isAction()        {}
func (NextTeam) isAction()          {}
func (RollDice) isAction()          {}
func (MoveTeam) isAction()          {}
func (UpdateScore) isAction()       {}
func (StartMinigame) isAction()     {}
func (SetActiveMinigame) isAction() {}
func (EndMinigame) isAction()       {}
func (NextRound) isAction()         {}
func (UndoLastAction) isAction()    {}
func (EndGame) isAction()           {}
func (ResetState) isAction()        {}
func (UnknownAction) isAction()     {}
