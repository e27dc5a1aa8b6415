package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
)

var ErrMalformedAction = errors.New("malformed action")

// envelope is the wire form of an action: {"type": "...", "payload": ...}.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type setMapPayload struct {
	Map  gruppenspiel.MapDefinition `json:"map"`
	Seed json.RawMessage            `json:"seed,omitempty"`
}

type updateTeamPayload struct {
	ID      string    `json:"id"`
	Updates TeamPatch `json:"updates"`
}

type teamPositionPayload struct {
	TeamID   string `json:"teamId"`
	Position int    `json:"position"`
}

type teamScorePayload struct {
	TeamID string `json:"teamId"`
	Score  int    `json:"score"`
}

// DecodeAction parses one wire action. Unrecognised types decode to
// UnknownAction rather than failing.
func DecodeAction(data []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAction, err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedAction)
	}

	payload := func(dest any) error {
		if len(env.Payload) == 0 || bytes.Equal(env.Payload, []byte("null")) {
			return fmt.Errorf("%w: %s requires a payload", ErrMalformedAction, env.Type)
		}
		if err := json.Unmarshal(env.Payload, dest); err != nil {
			return fmt.Errorf("%w: %s payload: %v", ErrMalformedAction, env.Type, err)
		}
		return nil
	}

	switch env.Type {
	case TypeStartGame:
		return StartGame{}, nil
	case TypeSetPhase:
		var p gruppenspiel.Phase
		if err := payload(&p); err != nil {
			return nil, err
		}
		if !p.Valid() {
			return nil, fmt.Errorf("%w: unknown phase %q", ErrMalformedAction, p)
		}
		return SetPhase{Phase: p}, nil
	case TypeUpdateSettings:
		var p SettingsPatch
		if err := payload(&p); err != nil {
			return nil, err
		}
		return UpdateSettings{Patch: p}, nil
	case TypeSetMap:
		var p setMapPayload
		if err := payload(&p); err != nil {
			return nil, err
		}
		return SetMap{Map: p.Map, Seed: seedString(p.Seed)}, nil
	case TypeAddTeam:
		var p gruppenspiel.Team
		if err := payload(&p); err != nil {
			return nil, err
		}
		return AddTeam{Team: p}, nil
	case TypeRemoveTeam:
		var id string
		if err := payload(&id); err != nil {
			return nil, err
		}
		return RemoveTeam{TeamID: id}, nil
	case TypeUpdateTeam:
		var p updateTeamPayload
		if err := payload(&p); err != nil {
			return nil, err
		}
		return UpdateTeam{TeamID: p.ID, Patch: p.Updates}, nil
	case TypeNextTeam:
		return NextTeam{}, nil
	case TypeRollDice:
		var roll int
		if err := payload(&roll); err != nil {
			return nil, err
		}
		return RollDice{Roll: roll}, nil
	case TypeMoveTeam:
		var p teamPositionPayload
		if err := payload(&p); err != nil {
			return nil, err
		}
		return MoveTeam{TeamID: p.TeamID, Position: p.Position}, nil
	case TypeUpdateScore:
		var p teamScorePayload
		if err := payload(&p); err != nil {
			return nil, err
		}
		return UpdateScore{TeamID: p.TeamID, Score: p.Score}, nil
	case TypeStartMinigame:
		// The payload is optional: absent or null means manual selection.
		var id string
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, &id); err != nil {
				return nil, fmt.Errorf("%w: %s payload: %v", ErrMalformedAction, env.Type, err)
			}
		}
		return StartMinigame{MinigameID: id}, nil
	case TypeSetActiveMinigame:
		var id string
		if err := payload(&id); err != nil {
			return nil, err
		}
		return SetActiveMinigame{MinigameID: id}, nil
	case TypeEndMinigame:
		return EndMinigame{}, nil
	case TypeNextRound:
		return NextRound{}, nil
	case TypeUndoLastAction:
		return UndoLastAction{}, nil
	case TypeEndGame:
		return EndGame{}, nil
	case TypeResetState:
		var s gruppenspiel.GameState
		if err := payload(&s); err != nil {
			return nil, err
		}
		return ResetState{State: s}, nil
	default:
		return UnknownAction{Name: env.Type}, nil
	}
}

// EncodeAction is the inverse of DecodeAction.
func EncodeAction(a Action) ([]byte, error) {
	var payload any
	switch a := a.(type) {
	case SetPhase:
		payload = a.Phase
	case UpdateSettings:
		payload = a.Patch
	case SetMap:
		p := struct {
			Map  gruppenspiel.MapDefinition `json:"map"`
			Seed string                     `json:"seed,omitempty"`
		}{a.Map, a.Seed}
		payload = p
	case AddTeam:
		payload = a.Team
	case RemoveTeam:
		payload = a.TeamID
	case UpdateTeam:
		payload = updateTeamPayload{ID: a.TeamID, Updates: a.Patch}
	case RollDice:
		payload = a.Roll
	case MoveTeam:
		payload = teamPositionPayload{TeamID: a.TeamID, Position: a.Position}
	case UpdateScore:
		payload = teamScorePayload{TeamID: a.TeamID, Score: a.Score}
	case StartMinigame:
		if a.MinigameID != "" {
			payload = a.MinigameID
		}
	case SetActiveMinigame:
		payload = a.MinigameID
	case ResetState:
		payload = a.State
	}

	env := struct {
		Type    string `json:"type"`
		Payload any    `json:"payload,omitempty"`
	}{a.Type(), payload}
	return json.Marshal(env)
}

// seedString accepts a seed sent either as a JSON string or a number.
func seedString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return n.String()
	}
	return ""
}
