package persist

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/playperu/gruppenspiel/internal/engine"
	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
	"github.com/playperu/gruppenspiel/internal/metrics"
)

const (
	StateKey  = "gruppenspiel_game_state"
	BeamerKey = "beamerMode"
)

// DefaultSaveTimeout bounds a save issued from a store listener.
const DefaultSaveTimeout = 2 * time.Second

// Saver is best-effort: storage errors are logged and counted, never
// returned, and the session carries on in memory.
type Saver struct {
	kv       KV
	logger   *slog.Logger
	migrator Migrator
	timeout  time.Duration
}

type SaverOption func(*Saver)

func WithMigrator(m Migrator) SaverOption {
	return func(s *Saver) { s.migrator = m }
}

func WithSaveTimeout(d time.Duration) SaverOption {
	return func(s *Saver) { s.timeout = d }
}

func NewSaver(kv KV, logger *slog.Logger, opts ...SaverOption) *Saver {
	s := &Saver{kv: kv, logger: logger, timeout: DefaultSaveTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Saver) Save(ctx context.Context, state gruppenspiel.GameState) {
	data, err := json.Marshal(state)
	if err != nil {
		s.fail("save", err)
		return
	}
	if err := s.kv.Put(ctx, StateKey, data); err != nil {
		s.fail("save", err)
	}
}

// Load returns the saved state, migrated to the current schema. It reports
// false when nothing usable is stored.
func (s *Saver) Load(ctx context.Context) (gruppenspiel.GameState, bool) {
	data, err := s.kv.Get(ctx, StateKey)
	if errors.Is(err, ErrNotFound) {
		return gruppenspiel.GameState{}, false
	}
	if err != nil {
		s.fail("load", err)
		return gruppenspiel.GameState{}, false
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("discarding unreadable save", "error", err)
		metrics.Migrations.WithLabelValues("failed").Inc()
		return gruppenspiel.GameState{}, false
	}

	state, from, err := s.migrator.migrate(raw)
	if err != nil {
		s.logger.Warn("discarding save that cannot be migrated", "from_version", from, "error", err)
		metrics.Migrations.WithLabelValues("failed").Inc()
		return gruppenspiel.GameState{}, false
	}
	if from != state.SchemaVersion {
		s.logger.Info("migrated save", "from_version", from, "to_version", state.SchemaVersion)
		metrics.Migrations.WithLabelValues("upgraded").Inc()
	} else {
		metrics.Migrations.WithLabelValues("current").Inc()
	}
	return state, true
}

// Reset clears the save slot. In-memory state is left alone.
func (s *Saver) Reset(ctx context.Context) {
	if err := s.kv.Delete(ctx, StateKey); err != nil {
		s.fail("reset", err)
	}
}

// Listener saves every accepted transition.
func (s *Saver) Listener() engine.Listener {
	return func(_ engine.Action, state gruppenspiel.GameState) {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.Save(ctx, state)
	}
}

// BeamerMode reports the display flag. Missing or unreadable means off.
func (s *Saver) BeamerMode(ctx context.Context) bool {
	data, err := s.kv.Get(ctx, BeamerKey)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		s.fail("load", err)
		return false
	}
	on, err := strconv.ParseBool(string(data))
	if err != nil {
		s.logger.Warn("ignoring unreadable beamer flag", "value", string(data))
		return false
	}
	return on
}

func (s *Saver) SetBeamerMode(ctx context.Context, on bool) {
	if err := s.kv.Put(ctx, BeamerKey, []byte(strconv.FormatBool(on))); err != nil {
		s.fail("save", err)
	}
}

// ToggleBeamerMode flips the display flag and returns the new value.
func (s *Saver) ToggleBeamerMode(ctx context.Context) bool {
	on := !s.BeamerMode(ctx)
	s.SetBeamerMode(ctx, on)
	return on
}

func (s *Saver) fail(op string, err error) {
	metrics.SaveFailures.WithLabelValues(op).Inc()
	s.logger.Error("persistence failed", "op", op, "error", err)
}
