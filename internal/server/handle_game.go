package server

import (
	"io"
	"net/http"

	"github.com/playperu/gruppenspiel/internal/engine"
	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
	"github.com/playperu/gruppenspiel/internal/persist"
)

func handleState(host *engine.Host) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, host.Store().Snapshot())
	}
}

// handleDispatch applies one wire-encoded action. Actions the reducer
// ignores still answer 200 with the unchanged state.
func handleDispatch(host *engine.Host) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "reading body: "+err.Error())
			return
		}
		action, err := engine.DecodeAction(data)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, host.Dispatch(action))
	}
}

func handleSetup(host *engine.Host) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req engine.SetupRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		state, err := host.Setup(r.Context(), req)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, state)
	}
}

func handleStart(host *engine.Host) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := host.Start()
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

func handleEnd(host *engine.Host) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := host.EndGame()
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

// handleReset installs a fresh default session and then clears the save
// slot, so storage is empty until the next change.
func handleReset(host *engine.Host, saver *persist.Saver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := host.Reset(engine.DefaultGameState())
		saver.Reset(r.Context())
		writeJSON(w, http.StatusOK, state)
	}
}

// ScoreboardResponse ranks the teams for the end screen. Winner is only set
// once the game has ended.
type ScoreboardResponse struct {
	WinCondition gruppenspiel.WinCondition `json:"winCondition"`
	Phase        gruppenspiel.Phase        `json:"phase"`
	Round        int                       `json:"round"`
	Ranking      []gruppenspiel.Team       `json:"ranking"`
	Winner       *gruppenspiel.Team        `json:"winner,omitempty"`
}

func handleScoreboard(host *engine.Host) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := host.Store().Snapshot()
		resp := ScoreboardResponse{
			WinCondition: s.Settings.WinCondition,
			Phase:        s.Phase,
			Round:        s.Round,
			Ranking:      engine.Scoreboard(s.Settings, s.Teams),
		}
		if s.Phase == gruppenspiel.PhaseEnd {
			if team, ok := engine.Winner(s.Settings, s.Teams); ok {
				resp.Winner = &team
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
