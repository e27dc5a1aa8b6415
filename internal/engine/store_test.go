package engine

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
	"github.com/playperu/gruppenspiel/internal/metrics"
)

func TestStoreNotifiesAcceptedTransitions(t *testing.T) {
	st := NewStore(DefaultGameState())

	var seen []string
	cancel := st.Subscribe(func(a Action, s gruppenspiel.GameState) {
		seen = append(seen, a.Type())
	})

	st.Dispatch(NextTeam{})
	st.Dispatch(UndoLastAction{})
	st.Dispatch(UnknownAction{Name: "NOPE"})
	st.Dispatch(AddTeam{Team: gruppenspiel.Team{ID: "a"}})
	st.Dispatch(NextTeam{})

	assert.Equal(t, []string{TypeAddTeam, TypeNextTeam}, seen)

	cancel()
	cancel()
	st.Dispatch(NextRound{})
	assert.Len(t, seen, 2)
}

func TestStoreListenerOrder(t *testing.T) {
	st := NewStore(DefaultGameState())
	var order []int
	st.Subscribe(func(Action, gruppenspiel.GameState) { order = append(order, 1) })
	cancel := st.Subscribe(func(Action, gruppenspiel.GameState) { order = append(order, 2) })
	st.Subscribe(func(Action, gruppenspiel.GameState) { order = append(order, 3) })
	cancel()

	st.Dispatch(NextRound{})
	assert.Equal(t, []int{1, 3}, order)
}

func TestStoreSnapshotIsolated(t *testing.T) {
	st := NewStore(DefaultGameState())
	st.Dispatch(AddTeam{Team: gruppenspiel.Team{ID: "a", Name: "A"}})

	snap := st.Snapshot()
	snap.Teams[0].Name = "mutated"
	assert.Equal(t, "A", st.Snapshot().Teams[0].Name)
}

func TestUnknownActionsShareOneMetricSeries(t *testing.T) {
	st := NewStore(DefaultGameState())
	st.Dispatch(UnknownAction{Name: "WARMUP"})
	before := testutil.CollectAndCount(metrics.ActionsDispatched)

	for i := range 50 {
		a, err := DecodeAction([]byte(fmt.Sprintf(`{"type":"junk-%d"}`, i)))
		require.NoError(t, err)
		st.Dispatch(a)
	}

	assert.Equal(t, before, testutil.CollectAndCount(metrics.ActionsDispatched))
	assert.Positive(t, testutil.ToFloat64(
		metrics.ActionsDispatched.WithLabelValues(UnknownActionLabel, "false")))
}
