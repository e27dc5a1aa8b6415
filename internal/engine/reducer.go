package engine

import "github.com/playperu/gruppenspiel/internal/gruppenspiel"

// Reduce applies action to state and returns the next state. It never
// mutates state or anything reachable from it; unknown actions return state
// unchanged.
func Reduce(state gruppenspiel.GameState, action Action) gruppenspiel.GameState {
	next, _ := reduce(state, action)
	return next
}

// reduce reports whether the action was accepted. Rejected actions return
// the input state as is.
func reduce(state gruppenspiel.GameState, action Action) (gruppenspiel.GameState, bool) {
	switch a := action.(type) {
	case StartGame:
		state.Phase = gruppenspiel.PhaseBoard
		state.CurrentTeamIndex = 0
		state.Round = 1
		return state, true

	case SetPhase:
		state.Phase = a.Phase
		return state, true

	case UpdateSettings:
		state.Settings = mergeSettings(state.Settings, a.Patch)
		return state, true

	case SetMap:
		m := a.Map.Clone()
		state.Map = &m
		state.Settings.MapID = m.ID
		return state, true

	case AddTeam:
		teams := make([]gruppenspiel.Team, 0, len(state.Teams)+1)
		state.Teams = append(append(teams, state.Teams...), a.Team)
		return state, true

	case RemoveTeam:
		teams := make([]gruppenspiel.Team, 0, len(state.Teams))
		for _, t := range state.Teams {
			if t.ID != a.TeamID {
				teams = append(teams, t)
			}
		}
		state.Teams = teams
		return state, true

	case UpdateTeam:
		state.Teams = mapTeams(state.Teams, func(i int, t gruppenspiel.Team) (gruppenspiel.Team, bool) {
			if t.ID != a.TeamID {
				return t, false
			}
			return mergeTeam(t, a.Patch), true
		})
		return state, true

	case NextTeam:
		if len(state.Teams) == 0 {
			return state, false
		}
		next := (state.CurrentTeamIndex + 1) % len(state.Teams)
		if next == 0 {
			state.Round++
		}
		state.CurrentTeamIndex = next
		return state, true

	case RollDice:
		current, ok := state.CurrentTeam()
		if !ok {
			return state, false
		}
		idx := state.CurrentTeamIndex
		state.Teams = mapTeams(state.Teams, func(i int, t gruppenspiel.Team) (gruppenspiel.Team, bool) {
			if i != idx {
				return t, false
			}
			t.Position += a.Roll
			return t, true
		})
		state.LastAction = &gruppenspiel.LastAction{
			TeamIndex:        idx,
			PreviousPosition: current.Position,
			PreviousScore:    current.Score,
			DiceRoll:         a.Roll,
		}
		return state, true

	case MoveTeam:
		state.Teams = mapTeams(state.Teams, func(i int, t gruppenspiel.Team) (gruppenspiel.Team, bool) {
			if t.ID != a.TeamID {
				return t, false
			}
			t.Position = a.Position
			return t, true
		})
		return state, true

	case UpdateScore:
		state.Teams = mapTeams(state.Teams, func(i int, t gruppenspiel.Team) (gruppenspiel.Team, bool) {
			if t.ID != a.TeamID {
				return t, false
			}
			t.Score = a.Score
			return t, true
		})
		return state, true

	case StartMinigame:
		state.Phase = gruppenspiel.PhaseMinigame
		state.ActiveMinigameID = a.MinigameID
		return state, true

	case SetActiveMinigame:
		state.ActiveMinigameID = a.MinigameID
		return state, true

	case EndMinigame:
		state.Phase = gruppenspiel.PhaseBoard
		state.ActiveMinigameID = ""
		return state, true

	case NextRound:
		state.Round++
		return state, true

	case UndoLastAction:
		la := state.LastAction
		if la == nil || la.TeamIndex < 0 || la.TeamIndex >= len(state.Teams) {
			return state, false
		}
		state.Teams = mapTeams(state.Teams, func(i int, t gruppenspiel.Team) (gruppenspiel.Team, bool) {
			if i != la.TeamIndex {
				return t, false
			}
			t.Position = la.PreviousPosition
			t.Score = la.PreviousScore
			return t, true
		})
		state.LastAction = nil
		return state, true

	case EndGame:
		state.Phase = gruppenspiel.PhaseEnd
		return state, true

	case ResetState:
		return a.State.Clone(), true

	default:
		return state, false
	}
}

// mapTeams returns a fresh slice when fn changes at least one team and the
// original slice otherwise.
func mapTeams(teams []gruppenspiel.Team, fn func(int, gruppenspiel.Team) (gruppenspiel.Team, bool)) []gruppenspiel.Team {
	var out []gruppenspiel.Team
	for i, t := range teams {
		updated, changed := fn(i, t)
		if !changed {
			continue
		}
		if out == nil {
			out = append([]gruppenspiel.Team(nil), teams...)
		}
		out[i] = updated
	}
	if out == nil {
		return teams
	}
	return out
}

func mergeSettings(s gruppenspiel.GameSettings, p SettingsPatch) gruppenspiel.GameSettings {
	if p.WinCondition != nil {
		s.WinCondition = *p.WinCondition
	}
	if p.BoardLength != nil {
		s.BoardLength = *p.BoardLength
	}
	if p.MaxRounds != nil {
		s.MaxRounds = *p.MaxRounds
	}
	if p.DiceOptions != nil {
		s.DiceOptions = append([]int{}, p.DiceOptions...)
	}
	if p.MinigameSelection != nil {
		s.MinigameSelection = *p.MinigameSelection
	}
	if p.EnabledMinigameIDs != nil {
		s.EnabledMinigameIDs = append([]string{}, p.EnabledMinigameIDs...)
	}
	if p.MapID != nil {
		s.MapID = *p.MapID
	}
	return s
}

func mergeTeam(t gruppenspiel.Team, p TeamPatch) gruppenspiel.Team {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.Score != nil {
		t.Score = *p.Score
	}
	if p.Position != nil {
		t.Position = *p.Position
	}
	return t
}
