package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/playperu/gruppenspiel/internal/catalog"
	"github.com/playperu/gruppenspiel/internal/engine"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// readOptionalJSON is readJSON for endpoints where an empty body means
// defaults.
func readOptionalJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if err := readJSON(w, r, v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFailure maps a domain error to its status code.
func writeFailure(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidSetup),
		errors.Is(err, catalog.ErrInvalidContent),
		errors.Is(err, engine.ErrUnknownTeam),
		errors.Is(err, engine.ErrMinigameNotEnabled),
		errors.Is(err, engine.ErrResultMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrWrongPhase),
		errors.Is(err, engine.ErrAdvancePending),
		errors.Is(err, engine.ErrNoTeams),
		errors.Is(err, engine.ErrNoActiveMinigame):
		return http.StatusConflict
	case errors.Is(err, engine.ErrMalformedAction):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
