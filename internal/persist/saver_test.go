package persist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/gruppenspiel/internal/database"
	"github.com/playperu/gruppenspiel/internal/engine"
	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
	"github.com/playperu/gruppenspiel/internal/migrations"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sqliteKV(t *testing.T) *SQLiteKV {
	t.Helper()
	db, err := database.Open(context.Background(), database.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = migrations.Run(context.Background(), db)
	require.NoError(t, err)
	return NewSQLiteKV(db)
}

func backends(t *testing.T) map[string]KV {
	return map[string]KV{
		"memory": NewMemoryKV(),
		"sqlite": sqliteKV(t),
	}
}

func sampleState() gruppenspiel.GameState {
	s := engine.NewGameState(gruppenspiel.DefaultSettings(), []gruppenspiel.Team{
		{ID: "a", Name: "Ants", Color: "#aa0000", Score: 3, Position: 7},
	}, "generated_1", []string{"capitals"})
	s.Phase = gruppenspiel.PhaseBoard
	s.LastAction = &gruppenspiel.LastAction{TeamIndex: 0, PreviousPosition: 2, DiceRoll: 5}
	return s
}

func TestSaveLoadReset(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := NewSaver(kv, quietLogger())

			_, ok := s.Load(ctx)
			assert.False(t, ok)

			want := sampleState()
			s.Save(ctx, want)
			got, ok := s.Load(ctx)
			require.True(t, ok)
			assert.Equal(t, want, got)

			s.Reset(ctx)
			_, ok = s.Load(ctx)
			assert.False(t, ok)
			s.Reset(ctx)
		})
	}
}

func TestLoadMigratesLegacySave(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Put(ctx, StateKey, []byte(`{"teams":[{"name":"Old","position":4}]}`)))

	s := NewSaver(kv, quietLogger(), WithMigrator(Migrator{NewID: func() string { return "fresh" }}))
	got, ok := s.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, 1, got.SchemaVersion)
	assert.Equal(t, gruppenspiel.PhaseBoard, got.Phase)
	assert.Equal(t, "fresh", got.Teams[0].ID)
}

func TestLoadDiscardsBadSaves(t *testing.T) {
	for _, raw := range []string{`{not json`, `[]`, `{"schemaVersion": 9}`} {
		t.Run(raw, func(t *testing.T) {
			ctx := context.Background()
			kv := NewMemoryKV()
			require.NoError(t, kv.Put(ctx, StateKey, []byte(raw)))

			_, ok := NewSaver(kv, quietLogger()).Load(ctx)
			assert.False(t, ok)
		})
	}
}

type brokenKV struct{}

var errBroken = errors.New("disk on fire")

func (brokenKV) Get(context.Context, string) ([]byte, error) { return nil, errBroken }
func (brokenKV) Put(context.Context, string, []byte) error   { return errBroken }
func (brokenKV) Delete(context.Context, string) error        { return errBroken }
func (brokenKV) Check(context.Context) error                 { return errBroken }

func TestStorageErrorsAreSwallowed(t *testing.T) {
	ctx := context.Background()
	s := NewSaver(brokenKV{}, quietLogger())

	assert.NotPanics(t, func() {
		s.Save(ctx, sampleState())
		s.Reset(ctx)
		s.SetBeamerMode(ctx, true)
	})
	_, ok := s.Load(ctx)
	assert.False(t, ok)
	assert.False(t, s.BeamerMode(ctx))
}

func TestListenerSavesAcceptedTransitions(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewSaver(kv, quietLogger())

	st := engine.NewStore(engine.DefaultGameState())
	st.Subscribe(s.Listener())

	st.Dispatch(engine.NextTeam{})
	_, err := kv.Get(ctx, StateKey)
	assert.ErrorIs(t, err, ErrNotFound, "no-op was saved")

	st.Dispatch(engine.AddTeam{Team: gruppenspiel.Team{ID: "a", Name: "A"}})
	got, ok := s.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, st.Snapshot(), got)
}

func TestBeamerMode(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := NewSaver(kv, quietLogger())

			assert.False(t, s.BeamerMode(ctx))
			assert.True(t, s.ToggleBeamerMode(ctx))
			assert.True(t, s.BeamerMode(ctx))
			s.SetBeamerMode(ctx, false)
			assert.False(t, s.BeamerMode(ctx))

			_, ok := s.Load(ctx)
			assert.False(t, ok, "flag leaked into state slot")
		})
	}
}
