package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/gruppenspiel/internal/engine"
	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse maps each checked dependency to its status.
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

// operation describes one route for the reflector.
type operation struct {
	method, path string
	summary      string
	description  string
	req          any
	resp         map[int]any
}

var operations = []operation{
	{
		method: http.MethodGet, path: "/healthz",
		summary:     "Health check",
		description: "Reports whether storage and content are reachable.",
		resp:        map[int]any{http.StatusOK: HealthResponse{}, http.StatusServiceUnavailable: HealthResponse{}},
	},
	{
		method: http.MethodGet, path: "/api/state",
		summary: "Current game state",
		resp:    map[int]any{http.StatusOK: gruppenspiel.GameState{}},
	},
	{
		method: http.MethodPost, path: "/api/actions",
		summary:     "Dispatch an action",
		description: "Applies one wire-encoded action ({\"type\": ..., \"payload\": ...}) without phase checks. Unknown types leave the state unchanged.",
		resp:        map[int]any{http.StatusOK: gruppenspiel.GameState{}, http.StatusBadRequest: ErrorResponse{}},
	},
	{
		method: http.MethodPost, path: "/api/game",
		summary:     "Set up a new game",
		description: "Validates teams and settings, loads or generates the board and replaces the session.",
		req:         engine.SetupRequest{},
		resp: map[int]any{
			http.StatusCreated:             gruppenspiel.GameState{},
			http.StatusBadRequest:          ErrorResponse{},
			http.StatusNotFound:            ErrorResponse{},
			http.StatusUnprocessableEntity: ErrorResponse{},
		},
	},
	{
		method: http.MethodDelete, path: "/api/game",
		summary:     "Reset",
		description: "Installs the default session and clears the save slot.",
		resp:        map[int]any{http.StatusOK: gruppenspiel.GameState{}},
	},
	{
		method: http.MethodPost, path: "/api/game/start",
		summary: "Start the game",
		resp:    map[int]any{http.StatusOK: gruppenspiel.GameState{}, http.StatusConflict: ErrorResponse{}},
	},
	{
		method: http.MethodPost, path: "/api/game/end",
		summary: "End the game early",
		resp:    map[int]any{http.StatusOK: gruppenspiel.GameState{}, http.StatusConflict: ErrorResponse{}},
	},
	{
		method: http.MethodPost, path: "/api/turn/roll",
		summary:     "Roll for the current team",
		description: "Rolls, moves, resolves the landed tile and passes the turn.",
		resp:        map[int]any{http.StatusOK: engine.TurnResult{}, http.StatusConflict: ErrorResponse{}},
	},
	{
		method: http.MethodPost, path: "/api/turn/undo",
		summary: "Undo the last roll",
		resp:    map[int]any{http.StatusOK: UndoResponse{}, http.StatusConflict: ErrorResponse{}},
	},
	{
		method: http.MethodPost, path: "/api/minigame/select",
		summary: "Pick the minigame in manual mode",
		req:     SelectMinigameRequest{},
		resp: map[int]any{
			http.StatusOK:                  SelectMinigameResponse{},
			http.StatusConflict:            ErrorResponse{},
			http.StatusUnprocessableEntity: ErrorResponse{},
		},
	},
	{
		method: http.MethodPost, path: "/api/minigame/finish",
		summary:     "Score the active minigame",
		description: "Physical results name a winner or give manual points to the current team. Quiz results list the teams that answered correctly.",
		req:         FinishMinigameRequest{},
		resp: map[int]any{
			http.StatusOK:                  gruppenspiel.GameState{},
			http.StatusBadRequest:          ErrorResponse{},
			http.StatusConflict:            ErrorResponse{},
			http.StatusUnprocessableEntity: ErrorResponse{},
		},
	},
	{
		method: http.MethodGet, path: "/api/scoreboard",
		summary: "Ranking and winner",
		resp:    map[int]any{http.StatusOK: ScoreboardResponse{}},
	},
	{
		method: http.MethodGet, path: "/api/maps",
		summary: "List maps",
		resp:    map[int]any{http.StatusOK: MapListResponse{}},
	},
	{
		method: http.MethodGet, path: "/api/maps/{id}",
		summary: "Get a map",
		req: struct {
			ID string `path:"id"`
		}{},
		resp: map[int]any{
			http.StatusOK:                  gruppenspiel.MapDefinition{},
			http.StatusNotFound:            ErrorResponse{},
			http.StatusUnprocessableEntity: ErrorResponse{},
		},
	},
	{
		method: http.MethodGet, path: "/api/minigames",
		summary: "List minigames",
		req: struct {
			Query string `query:"q" description:"Substring of name or type"`
			Type  string `query:"type" enum:"physical,quiz"`
		}{},
		resp: map[int]any{http.StatusOK: MinigameListResponse{}, http.StatusBadRequest: ErrorResponse{}},
	},
	{
		method: http.MethodGet, path: "/api/minigames/{id}",
		summary: "Get a minigame",
		req: struct {
			ID string `path:"id"`
		}{},
		resp: map[int]any{
			http.StatusOK:                  gruppenspiel.QuizMinigame{},
			http.StatusNotFound:            ErrorResponse{},
			http.StatusUnprocessableEntity: ErrorResponse{},
		},
	},
	{
		method: http.MethodGet, path: "/api/display/beamer",
		summary: "Projector layout flag",
		resp:    map[int]any{http.StatusOK: BeamerResponse{}},
	},
	{
		method: http.MethodPut, path: "/api/display/beamer",
		summary:     "Set or toggle the projector layout",
		description: "Omitting enabled toggles the flag.",
		req:         BeamerRequest{},
		resp:        map[int]any{http.StatusOK: BeamerResponse{}},
	},
	{
		method: http.MethodGet, path: "/api/events",
		summary:     "State event stream",
		description: "Server-sent events named state, each carrying a StateEvent. The current state is sent on connect.",
		resp:        map[int]any{http.StatusOK: StateEvent{}},
	},
	{
		method: http.MethodGet, path: "/ws/state",
		summary:     "WebSocket state feed",
		description: "Upgrades to a WebSocket that pushes a StateEvent after every change.",
		resp:        map[int]any{http.StatusSwitchingProtocols: nil},
	},
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Gruppenspiel API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Host console API for the Gruppenspiel party board game.")

	for _, op := range operations {
		oc, err := r.NewOperationContext(op.method, op.path)
		if err != nil {
			continue
		}
		oc.SetSummary(op.summary)
		if op.description != "" {
			oc.SetDescription(op.description)
		}
		if op.req != nil {
			oc.AddReqStructure(op.req)
		}
		for status, body := range op.resp {
			switch {
			case op.path == "/api/events":
				oc.AddRespStructure(body, openapi.WithHTTPStatus(status), openapi.WithContentType("text/event-stream"))
			case body == nil:
				oc.AddRespStructure(nil, openapi.WithHTTPStatus(status), openapi.WithContentType("text/plain"))
			default:
				oc.AddRespStructure(body, openapi.WithHTTPStatus(status))
			}
		}
		_ = r.AddOperation(oc)
	}

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
