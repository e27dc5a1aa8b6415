package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
	"github.com/playperu/gruppenspiel/internal/mapgen"
	"github.com/playperu/gruppenspiel/internal/metrics"
)

// DefaultAdvanceDelay is how long a bonus or penalty stays on screen before
// the turn passes.
const DefaultAdvanceDelay = 500 * time.Millisecond

var (
	ErrWrongPhase         = errors.New("operation not allowed in current phase")
	ErrAdvancePending     = errors.New("turn advance already pending")
	ErrNoTeams            = errors.New("no teams")
	ErrUnknownTeam        = errors.New("unknown team")
	ErrMinigameNotEnabled = errors.New("minigame not enabled")
	ErrNoActiveMinigame   = errors.New("no active minigame")
	ErrResultMismatch     = errors.New("result does not match minigame type")
	ErrInvalidSetup       = errors.New("invalid setup")
	ErrClosed             = errors.New("host closed")
)

// Content resolves catalog ids to definitions.
type Content interface {
	Map(ctx context.Context, id string) (gruppenspiel.MapDefinition, error)
	Minigame(ctx context.Context, id string) (gruppenspiel.Minigame, error)
}

// SetupRequest describes a new game. MapID selects a catalog map; without it
// a board of Settings.BoardLength tiles is generated from Seed.
type SetupRequest struct {
	Settings           gruppenspiel.GameSettings `json:"settings"`
	Teams              []gruppenspiel.Team       `json:"teams"`
	MapID              string                    `json:"mapId,omitempty"`
	Seed               string                    `json:"seed,omitempty"`
	EnabledMinigameIDs []string                  `json:"enabledMinigameIds,omitempty"`
}

// TurnResult describes one resolved dice turn.
type TurnResult struct {
	TeamID         string                 `json:"teamId"`
	Sides          int                    `json:"sides"`
	Roll           int                    `json:"roll"`
	From           int                    `json:"from"`
	To             int                    `json:"to"`
	Tile           gruppenspiel.TileType  `json:"tile"`
	ScoreDelta     int                    `json:"scoreDelta,omitempty"`
	MinigameID     string                 `json:"minigameId,omitempty"`
	AdvancePending bool                   `json:"advancePending"`
	Ended          bool                   `json:"ended"`
	State          gruppenspiel.GameState `json:"state"`
}

type HostOption func(*Host)

func WithRand(r *rand.Rand) HostOption {
	return func(h *Host) { h.rng = r }
}

func WithAfterFunc(after AfterFunc) HostOption {
	return func(h *Host) { h.timer = NewDeferred(after) }
}

func WithAdvanceDelay(d time.Duration) HostOption {
	return func(h *Host) { h.delay = d }
}

func WithLogger(l *slog.Logger) HostOption {
	return func(h *Host) { h.logger = l }
}

// Host drives a session on top of a Store: setup, dice turns, minigame
// scoring and win checks. Its methods are safe for concurrent use but run
// one at a time.
type Host struct {
	store   *Store
	content Content
	logger  *slog.Logger
	rng     *rand.Rand
	timer   *Deferred
	delay   time.Duration

	mu      sync.Mutex
	closed  bool
	advSeq  uint64
	advWait bool
}

func NewHost(store *Store, content Content, opts ...HostOption) *Host {
	h := &Host{
		store:   store,
		content: content,
		logger:  slog.Default(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		timer:   NewDeferred(nil),
		delay:   DefaultAdvanceDelay,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Host) Store() *Store { return h.store }

// Pending reports whether a delayed turn advance is scheduled.
func (h *Host) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.advWait
}

// Setup validates req, materialises the board and replaces the session with
// a fresh one in the setup phase.
func (h *Host) Setup(ctx context.Context, req SetupRequest) (gruppenspiel.GameState, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return gruppenspiel.GameState{}, ErrClosed
	}

	settings := req.Settings
	if err := validateSettings(settings, req.MapID != ""); err != nil {
		return gruppenspiel.GameState{}, err
	}
	teams, err := prepareTeams(req.Teams)
	if err != nil {
		return gruppenspiel.GameState{}, err
	}

	enabled := req.EnabledMinigameIDs
	if enabled == nil {
		enabled = settings.EnabledMinigameIDs
	}
	enabled = dedupe(enabled)
	for _, id := range enabled {
		if _, err := h.content.Minigame(ctx, id); err != nil {
			return gruppenspiel.GameState{}, fmt.Errorf("%w: minigame %q: %w", ErrInvalidSetup, id, err)
		}
	}

	var m gruppenspiel.MapDefinition
	seed := req.Seed
	if req.MapID != "" {
		m, err = h.content.Map(ctx, req.MapID)
		if err != nil {
			return gruppenspiel.GameState{}, fmt.Errorf("%w: map %q: %w", ErrInvalidSetup, req.MapID, err)
		}
		// Keep the setting in line with the board that is actually played.
		settings.BoardLength = m.LastIndex()
		seed = ""
	} else {
		s := mapgen.ParseSeed(req.Seed)
		if s.IsZero() {
			s = mapgen.TimeSeed()
		}
		m, err = mapgen.Generate(mapgen.Params{BoardLength: settings.BoardLength, Seed: s})
		if err != nil {
			return gruppenspiel.GameState{}, fmt.Errorf("%w: %w", ErrInvalidSetup, err)
		}
		seed = s.String()
	}

	h.cancelAdvanceLocked()
	state := NewGameState(settings, teams, m.ID, enabled)
	h.store.Dispatch(ResetState{State: state})
	next := h.store.Dispatch(SetMap{Map: m, Seed: seed})

	h.logger.Info("game set up",
		"map_id", m.ID,
		"seed", seed,
		"teams", len(teams),
		"win_condition", settings.WinCondition,
		"minigames", len(enabled),
	)
	return next, nil
}

// Start leaves the setup phase.
func (h *Host) Start() (gruppenspiel.GameState, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return gruppenspiel.GameState{}, ErrClosed
	}

	s := h.store.Snapshot()
	if s.Phase != gruppenspiel.PhaseSetup {
		return s, fmt.Errorf("%w: start from %s", ErrWrongPhase, s.Phase)
	}
	if len(s.Teams) == 0 {
		return s, ErrNoTeams
	}
	return h.store.Dispatch(StartGame{}), nil
}

// RollTurn rolls for the current team, moves it and resolves the tile it
// lands on.
func (h *Host) RollTurn() (TurnResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return TurnResult{}, ErrClosed
	}

	s := h.store.Snapshot()
	if s.Phase != gruppenspiel.PhaseBoard {
		return TurnResult{}, fmt.Errorf("%w: roll in %s", ErrWrongPhase, s.Phase)
	}
	if h.advWait {
		return TurnResult{}, ErrAdvancePending
	}
	team, ok := s.CurrentTeam()
	if !ok {
		return TurnResult{}, ErrNoTeams
	}

	dice := s.Settings.Dice()
	sides := dice[h.rng.Intn(len(dice))]
	roll := 1 + h.rng.Intn(sides)

	last := s.Settings.BoardLength
	if s.Map != nil && len(s.Map.Tiles) > 0 {
		last = s.Map.LastIndex()
	}
	target := min(team.Position+roll, last)

	h.store.Dispatch(RollDice{Roll: roll})
	h.store.Dispatch(MoveTeam{TeamID: team.ID, Position: target})

	res := TurnResult{
		TeamID: team.ID,
		Sides:  sides,
		Roll:   roll,
		From:   team.Position,
		To:     target,
		Tile:   gruppenspiel.TileNormal,
	}

	var tile gruppenspiel.Tile
	found := false
	if s.Map != nil {
		tile, found = s.Map.TileAt(target)
	}
	if found {
		res.Tile = tile.Type
	}

	switch {
	case found && (tile.Type == gruppenspiel.TileBonus || tile.Type == gruppenspiel.TilePenalty):
		def := 3
		if tile.Type == gruppenspiel.TilePenalty {
			def = -3
		}
		res.ScoreDelta = tile.ValueOr(def)
		cur := h.store.Snapshot()
		scored, _ := cur.TeamByID(team.ID)
		h.store.Dispatch(UpdateScore{TeamID: team.ID, Score: scored.Score + res.ScoreDelta})
		if h.checkWinLocked() {
			res.Ended = true
			break
		}
		h.scheduleAdvanceLocked()
		res.AdvancePending = true

	case found && tile.Type == gruppenspiel.TileMinigame && len(s.Settings.EnabledMinigameIDs) > 0:
		if s.Settings.MinigameSelection == gruppenspiel.SelectRandom {
			res.MinigameID = h.pickLocked(s.Settings.EnabledMinigameIDs)
		}
		h.store.Dispatch(StartMinigame{MinigameID: res.MinigameID})

	default:
		res.Ended = h.advanceLocked()
	}

	metrics.TurnsResolved.WithLabelValues(string(res.Tile)).Inc()
	h.logger.Debug("turn resolved",
		"team_id", team.ID,
		"sides", sides,
		"roll", roll,
		"from", res.From,
		"to", res.To,
		"tile", res.Tile,
		"delta", res.ScoreDelta,
		"minigame_id", res.MinigameID,
	)

	res.State = h.store.Snapshot()
	return res, nil
}

// SelectMinigame settles the manual pick. An empty id picks uniformly from
// the enabled pool; any other id must be in the pool.
func (h *Host) SelectMinigame(id string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return "", ErrClosed
	}

	s := h.store.Snapshot()
	if s.Phase != gruppenspiel.PhaseMinigame {
		return "", fmt.Errorf("%w: select in %s", ErrWrongPhase, s.Phase)
	}
	pool := s.Settings.EnabledMinigameIDs
	if id == "" {
		if len(pool) == 0 {
			return "", ErrMinigameNotEnabled
		}
		id = h.pickLocked(pool)
	} else if !s.Settings.MinigameEnabled(id) {
		return "", fmt.Errorf("%w: %q", ErrMinigameNotEnabled, id)
	}

	h.store.Dispatch(SetActiveMinigame{MinigameID: id})
	return id, nil
}

// FinishMinigame awards points for the active minigame, returns to the
// board and passes the turn.
func (h *Host) FinishMinigame(ctx context.Context, result MinigameResult) (gruppenspiel.GameState, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return gruppenspiel.GameState{}, ErrClosed
	}

	s := h.store.Snapshot()
	if s.Phase != gruppenspiel.PhaseMinigame {
		return s, fmt.Errorf("%w: finish in %s", ErrWrongPhase, s.Phase)
	}
	if s.ActiveMinigameID == "" {
		return s, ErrNoActiveMinigame
	}
	mg, err := h.content.Minigame(ctx, s.ActiveMinigameID)
	if err != nil {
		return s, fmt.Errorf("loading minigame %q: %w", s.ActiveMinigameID, err)
	}

	awards, err := scoreMinigame(s, mg, result)
	if err != nil {
		return s, err
	}
	for _, a := range awards {
		cur := h.store.Snapshot()
		t, _ := cur.TeamByID(a.teamID)
		h.store.Dispatch(UpdateScore{TeamID: a.teamID, Score: t.Score + a.points})
	}

	h.store.Dispatch(EndMinigame{})
	h.store.Dispatch(NextTeam{})
	h.checkWinLocked()

	h.logger.Info("minigame finished",
		"minigame_id", mg.Base().ID,
		"kind", mg.Kind(),
		"awards", len(awards),
	)
	return h.store.Snapshot(), nil
}

type award struct {
	teamID string
	points int
}

func scoreMinigame(s gruppenspiel.GameState, mg gruppenspiel.Minigame, result MinigameResult) ([]award, error) {
	switch mg := mg.(type) {
	case gruppenspiel.PhysicalMinigame:
		r, ok := result.(PhysicalResult)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects a physical result", ErrResultMismatch, mg.ID)
		}
		if r.WinnerTeamID != "" {
			if _, ok := s.TeamByID(r.WinnerTeamID); !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownTeam, r.WinnerTeamID)
			}
			return []award{{r.WinnerTeamID, mg.Scoring.WinOr(10)}}, nil
		}
		if r.ManualPoints != 0 {
			cur, ok := s.CurrentTeam()
			if !ok {
				return nil, ErrNoTeams
			}
			return []award{{cur.ID, r.ManualPoints}}, nil
		}
		return nil, nil

	case gruppenspiel.QuizMinigame:
		r, ok := result.(QuizResult)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects a quiz result", ErrResultMismatch, mg.ID)
		}
		points := mg.Scoring.CorrectOr(10)
		var awards []award
		for _, id := range dedupe(r.CorrectTeamIDs) {
			if _, ok := s.TeamByID(id); !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownTeam, id)
			}
			awards = append(awards, award{id, points})
		}
		return awards, nil

	default:
		return nil, fmt.Errorf("%w: unsupported minigame %T", ErrResultMismatch, mg)
	}
}

// Undo reverts the last dice roll. A pending advance is dropped so the same
// team rolls again.
func (h *Host) Undo() (gruppenspiel.GameState, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return gruppenspiel.GameState{}, false, ErrClosed
	}

	s := h.store.Snapshot()
	if s.Phase != gruppenspiel.PhaseBoard {
		return s, false, fmt.Errorf("%w: undo in %s", ErrWrongPhase, s.Phase)
	}
	h.cancelAdvanceLocked()
	if s.LastAction == nil {
		return s, false, nil
	}
	return h.store.Dispatch(UndoLastAction{}), true, nil
}

// EndGame ends the session from the board.
func (h *Host) EndGame() (gruppenspiel.GameState, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return gruppenspiel.GameState{}, ErrClosed
	}

	s := h.store.Snapshot()
	if s.Phase != gruppenspiel.PhaseBoard {
		return s, fmt.Errorf("%w: end from %s", ErrWrongPhase, s.Phase)
	}
	h.cancelAdvanceLocked()
	return h.store.Dispatch(EndGame{}), nil
}

// Reset replaces the session wholesale and drops any pending advance.
func (h *Host) Reset(state gruppenspiel.GameState) gruppenspiel.GameState {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancelAdvanceLocked()
	return h.store.Dispatch(ResetState{State: state})
}

// Dispatch applies a raw action without phase checks. Only score, team and
// settings edits keep a pending advance; anything that can move the turn,
// the phase or the team order drops it first so a turn advances once.
func (h *Host) Dispatch(action Action) gruppenspiel.GameState {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch action.(type) {
	case UpdateScore, UpdateTeam, UpdateSettings, UnknownAction:
	default:
		h.cancelAdvanceLocked()
	}
	return h.store.Dispatch(action)
}

// Close cancels any pending advance. The host rejects further turns.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancelAdvanceLocked()
	h.closed = true
}

func (h *Host) scheduleAdvanceLocked() {
	h.advSeq++
	seq := h.advSeq
	h.advWait = true
	h.timer.Schedule(h.delay, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.closed || seq != h.advSeq {
			return
		}
		h.advWait = false
		h.advanceLocked()
	})
}

func (h *Host) cancelAdvanceLocked() {
	h.advSeq++
	h.advWait = false
	h.timer.Cancel()
}

// advanceLocked passes the turn and reports whether the game ended.
func (h *Host) advanceLocked() bool {
	h.store.Dispatch(NextTeam{})
	return h.checkWinLocked()
}

func (h *Host) checkWinLocked() bool {
	s := h.store.Snapshot()
	if s.Phase != gruppenspiel.PhaseBoard || !StateShouldEnd(s) {
		return false
	}
	h.store.Dispatch(EndGame{})
	h.logger.Info("game ended", "round", s.Round)
	return true
}

func (h *Host) pickLocked(ids []string) string {
	return ids[h.rng.Intn(len(ids))]
}

func validateSettings(s gruppenspiel.GameSettings, fixedMap bool) error {
	switch s.WinCondition {
	case gruppenspiel.WinFinish, gruppenspiel.WinPointsAfterRounds:
	default:
		return fmt.Errorf("%w: win condition %q", ErrInvalidSetup, s.WinCondition)
	}
	switch s.MinigameSelection {
	case gruppenspiel.SelectRandom, gruppenspiel.SelectManual:
	default:
		return fmt.Errorf("%w: minigame selection %q", ErrInvalidSetup, s.MinigameSelection)
	}
	if !fixedMap && s.BoardLength < 10 {
		return fmt.Errorf("%w: board length %d below 10", ErrInvalidSetup, s.BoardLength)
	}
	if s.MaxRounds < 1 {
		return fmt.Errorf("%w: max rounds %d below 1", ErrInvalidSetup, s.MaxRounds)
	}
	for _, d := range s.DiceOptions {
		if d < 1 {
			return fmt.Errorf("%w: die with %d sides", ErrInvalidSetup, d)
		}
	}
	return nil
}

// prepareTeams assigns ids to new teams and resets their progress.
func prepareTeams(in []gruppenspiel.Team) ([]gruppenspiel.Team, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSetup, ErrNoTeams)
	}
	seen := make(map[string]bool, len(in))
	out := make([]gruppenspiel.Team, 0, len(in))
	for i, t := range in {
		if t.Name == "" {
			return nil, fmt.Errorf("%w: team %d has no name", ErrInvalidSetup, i+1)
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: duplicate team id %q", ErrInvalidSetup, t.ID)
		}
		seen[t.ID] = true
		if t.Color == "" {
			t.Color = "#000000"
		}
		t.Score, t.Position = 0, 0
		out = append(out, t)
	}
	return out, nil
}

func dedupe(ids []string) []string {
	if ids == nil {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
