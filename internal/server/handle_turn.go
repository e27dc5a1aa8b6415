package server

import (
	"fmt"
	"net/http"

	"github.com/playperu/gruppenspiel/internal/engine"
	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
)

func handleRoll(host *engine.Host) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := host.RollTurn()
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

type UndoResponse struct {
	Undone bool                   `json:"undone"`
	State  gruppenspiel.GameState `json:"state"`
}

func handleUndo(host *engine.Host) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, undone, err := host.Undo()
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, UndoResponse{Undone: undone, State: state})
	}
}

// SelectMinigameRequest picks the minigame in manual mode. An empty id
// draws one at random from the enabled pool.
type SelectMinigameRequest struct {
	MinigameID string `json:"minigameId,omitempty"`
}

type SelectMinigameResponse struct {
	MinigameID string                 `json:"minigameId"`
	State      gruppenspiel.GameState `json:"state"`
}

func handleSelectMinigame(host *engine.Host) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectMinigameRequest
		if err := readOptionalJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		id, err := host.SelectMinigame(req.MinigameID)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, SelectMinigameResponse{MinigameID: id, State: host.Store().Snapshot()})
	}
}

// FinishMinigameRequest carries either a physical or a quiz result, told
// apart by Type.
type FinishMinigameRequest struct {
	Type           gruppenspiel.MinigameKind `json:"type"`
	WinnerTeamID   string                    `json:"winnerTeamId,omitempty"`
	ManualPoints   int                       `json:"manualPoints,omitempty"`
	CorrectTeamIDs []string                  `json:"correctTeamIds,omitempty"`
}

func (req FinishMinigameRequest) result() (engine.MinigameResult, error) {
	switch req.Type {
	case gruppenspiel.KindPhysical:
		return engine.PhysicalResult{WinnerTeamID: req.WinnerTeamID, ManualPoints: req.ManualPoints}, nil
	case gruppenspiel.KindQuiz:
		return engine.QuizResult{CorrectTeamIDs: req.CorrectTeamIDs}, nil
	default:
		return nil, fmt.Errorf("unknown result type %q", req.Type)
	}
}

func handleFinishMinigame(host *engine.Host) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FinishMinigameRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		result, err := req.result()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		state, err := host.FinishMinigame(r.Context(), result)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}
