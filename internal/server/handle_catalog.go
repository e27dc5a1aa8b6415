package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/gruppenspiel/internal/catalog"
	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
)

type MapSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Length int    `json:"length"`
}

// MapListResponse lists the loadable maps. Errors names the files that
// failed so the setup screen can flag them.
type MapListResponse struct {
	Maps   []MapSummary `json:"maps"`
	Errors []string     `json:"errors,omitempty"`
}

type MinigameListResponse struct {
	Minigames []gruppenspiel.Minigame `json:"minigames"`
	Errors    []string                `json:"errors,omitempty"`
}

func handleListMaps(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := cat.MapIDs()
		if err != nil {
			writeFailure(w, err)
			return
		}
		resp := MapListResponse{Maps: []MapSummary{}}
		for _, id := range ids {
			m, err := cat.Map(r.Context(), id)
			if err != nil {
				resp.Errors = append(resp.Errors, err.Error())
				continue
			}
			resp.Maps = append(resp.Maps, MapSummary{ID: m.ID, Name: m.Name, Length: m.Length})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleGetMap(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := cat.Map(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

// handleListMinigames supports ?q= (name or type substring) and
// ?type=physical|quiz.
func handleListMinigames(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := gruppenspiel.MinigameKind(r.URL.Query().Get("type"))
		if kind != "" && kind != gruppenspiel.KindPhysical && kind != gruppenspiel.KindQuiz {
			writeError(w, http.StatusBadRequest, "type must be physical or quiz")
			return
		}

		all, err := cat.AllMinigames(r.Context())
		resp := MinigameListResponse{
			Minigames: catalog.Filter(all, r.URL.Query().Get("q"), kind),
			Errors:    errorStrings(err),
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleGetMinigame(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mg, err := cat.Minigame(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, mg)
	}
}

// errorStrings flattens an errors.Join result.
func errorStrings(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
