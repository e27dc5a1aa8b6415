package engine

import (
	"strconv"
	"sync"

	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
	"github.com/playperu/gruppenspiel/internal/metrics"
)

// Listener observes accepted transitions. It runs while the store is locked
// and must not dispatch.
type Listener func(action Action, state gruppenspiel.GameState)

// Store is the single writer of a session's state. Every mutation goes
// through Dispatch, one at a time.
type Store struct {
	mu        sync.Mutex
	state     gruppenspiel.GameState
	listeners map[int]Listener
	order     []int
	nextID    int
}

func NewStore(initial gruppenspiel.GameState) *Store {
	return &Store{
		state:     initial.Clone(),
		listeners: make(map[int]Listener),
	}
}

// Dispatch reduces action into the current state and returns the result.
// Listeners are told only when the action was not a no-op.
func (s *Store) Dispatch(action Action) gruppenspiel.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, accepted := reduce(s.state, action)
	metrics.ActionsDispatched.WithLabelValues(metricLabel(action), strconv.FormatBool(accepted)).Inc()
	if !accepted {
		return s.state.Clone()
	}
	s.state = next
	for _, id := range s.order {
		s.listeners[id](action, next.Clone())
	}
	return next.Clone()
}

func (s *Store) Snapshot() gruppenspiel.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers l and returns a func that removes it. Listeners run in
// registration order.
func (s *Store) Subscribe(l Listener) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i:i], s.order[i+1:]...)
					break
				}
			}
			s.mu.Unlock()
		})
	}
}

// UnknownActionLabel stands in for wire types the codec did not recognise,
// which are client-chosen and unbounded.
const UnknownActionLabel = "UNKNOWN"

func metricLabel(action Action) string {
	if _, ok := action.(UnknownAction); ok {
		return UnknownActionLabel
	}
	return action.Type()
}
