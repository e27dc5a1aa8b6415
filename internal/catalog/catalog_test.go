package catalog

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
)

func file(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"maps/tiny.json": file(`{"id":"tiny","name":"Tiny","length":3,"tiles":[
			{"index":0,"type":"normal"},{"index":1,"type":"bonus","value":4},{"index":2,"type":"normal"}]}`),
		"maps/gap.json": file(`{"id":"gap","name":"Gap","length":2,"tiles":[
			{"index":0,"type":"normal"},{"index":2,"type":"normal"}]}`),
		"maps/odd.json": file(`{"id":"odd","name":"Odd","length":1,"tiles":[{"index":0,"type":"lava"}]}`),
		"minigames/run.json": file(`{"id":"run","name":"Run","type":"physical","timeLimitSec":10,
			"scoring":{"win":7},"rules":["go"]}`),
		"minigames/ask.json": file(`{"id":"ask","name":"Ask","type":"quiz","timeLimitSec":5,
			"scoring":{},"question":"?","options":["a","b"],"correctIndex":1}`),
		"minigames/oob.json": file(`{"id":"oob","name":"Oob","type":"quiz","scoring":{},
			"question":"?","options":["a"],"correctIndex":1}`),
		"minigames/noscore.json": file(`{"id":"noscore","name":"No","type":"physical","rules":[]}`),
		"minigames/norules.json": file(`{"id":"norules","name":"No","type":"physical","scoring":{}}`),
		"minigames/dance.json":   file(`{"id":"dance","name":"Dance","type":"dance","scoring":{}}`),
		"minigames/renamed.json": file(`{"id":"other","name":"X","type":"physical","scoring":{},"rules":[]}`),
		"minigames/broken.json":  file(`{"id":`),
		"minigames/notes.txt":    file(`ignored`),
	}
}

func TestMap(t *testing.T) {
	c := New(testFS())
	ctx := context.Background()

	m, err := c.Map(ctx, "tiny")
	require.NoError(t, err)
	assert.Equal(t, 2, m.LastIndex())
	assert.Equal(t, 4, m.Tiles[1].ValueOr(0))

	for _, id := range []string{"gap", "odd"} {
		_, err := c.Map(ctx, id)
		assert.ErrorIs(t, err, ErrInvalidContent, id)
	}
	for _, id := range []string{"missing", "", "../maps/tiny"} {
		_, err := c.Map(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound, id)
	}
}

func TestMinigame(t *testing.T) {
	c := New(testFS())
	ctx := context.Background()

	mg, err := c.Minigame(ctx, "run")
	require.NoError(t, err)
	run, ok := mg.(gruppenspiel.PhysicalMinigame)
	require.True(t, ok)
	assert.Equal(t, 7, run.Scoring.WinOr(10))
	assert.Equal(t, []string{"go"}, run.Rules)

	mg, err = c.Minigame(ctx, "ask")
	require.NoError(t, err)
	ask, ok := mg.(gruppenspiel.QuizMinigame)
	require.True(t, ok)
	assert.Equal(t, 1, ask.CorrectIndex)
	assert.Equal(t, 10, ask.Scoring.CorrectOr(10))

	for _, id := range []string{"oob", "noscore", "norules", "dance", "renamed", "broken"} {
		_, err := c.Minigame(ctx, id)
		assert.ErrorIs(t, err, ErrInvalidContent, id)
	}
}

func TestMinigamesSkipsBadEntries(t *testing.T) {
	c := New(testFS())

	got, err := c.Minigames(context.Background(), []string{"run", "oob", "ask", "run", "ghost"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidContent)
	assert.ErrorIs(t, err, ErrNotFound)

	var ids []string
	for _, mg := range got {
		ids = append(ids, mg.Base().ID)
	}
	assert.Equal(t, []string{"run", "ask"}, ids)
}

func TestAllMinigamesAndIDs(t *testing.T) {
	c := New(testFS())

	ids, err := c.MinigameIDs()
	require.NoError(t, err)
	assert.NotContains(t, ids, "notes")
	assert.Len(t, ids, 8)

	all, err := c.AllMinigames(context.Background())
	assert.Error(t, err)
	assert.Len(t, all, 2)

	maps, err := c.MapIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"gap", "odd", "tiny"}, maps)
}

func TestEmbeddedContentIsValid(t *testing.T) {
	c := New(Embedded())
	ctx := context.Background()
	require.NoError(t, c.Check(ctx))

	mapIDs, err := c.MapIDs()
	require.NoError(t, err)
	require.NotEmpty(t, mapIDs)
	for _, id := range mapIDs {
		_, err := c.Map(ctx, id)
		assert.NoError(t, err, id)
	}

	all, err := c.AllMinigames(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, all)
}

func TestFilter(t *testing.T) {
	c := New(testFS())
	list, _ := c.Minigames(context.Background(), []string{"run", "ask"})

	tests := []struct {
		query string
		kind  gruppenspiel.MinigameKind
		want  int
	}{
		{"", "", 2},
		{"RUN", "", 1},
		{"quiz", "", 1},
		{"", gruppenspiel.KindPhysical, 1},
		{"ask", gruppenspiel.KindPhysical, 0},
		{"zzz", "", 0},
	}
	for _, tt := range tests {
		assert.Len(t, Filter(list, tt.query, tt.kind), tt.want, "%q/%q", tt.query, tt.kind)
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(testFS()).Map(ctx, "tiny")
	assert.ErrorIs(t, err, context.Canceled)
}
