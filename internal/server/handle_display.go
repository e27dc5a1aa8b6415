package server

import (
	"net/http"

	"github.com/playperu/gruppenspiel/internal/persist"
)

type BeamerResponse struct {
	Enabled bool `json:"enabled"`
}

// BeamerRequest sets the projector layout. Without Enabled the flag is
// toggled.
type BeamerRequest struct {
	Enabled *bool `json:"enabled,omitempty"`
}

func handleGetBeamer(saver *persist.Saver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, BeamerResponse{Enabled: saver.BeamerMode(r.Context())})
	}
}

func handlePutBeamer(saver *persist.Saver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BeamerRequest
		if err := readOptionalJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Enabled == nil {
			writeJSON(w, http.StatusOK, BeamerResponse{Enabled: saver.ToggleBeamerMode(r.Context())})
			return
		}
		saver.SetBeamerMode(r.Context(), *req.Enabled)
		writeJSON(w, http.StatusOK, BeamerResponse{Enabled: *req.Enabled})
	}
}
