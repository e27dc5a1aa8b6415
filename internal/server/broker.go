package server

import (
	"encoding/json"
	"sync"

	"github.com/playperu/gruppenspiel/internal/engine"
	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
)

// StateEvent is pushed to every display after an accepted action. Action is
// empty for the snapshot sent when a display connects.
type StateEvent struct {
	Action string                 `json:"action,omitempty"`
	State  gruppenspiel.GameState `json:"state"`
}

// Broker fans state events out to SSE and WebSocket subscribers.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan []byte]struct{})}
}

// Subscribe returns a channel that receives JSON-encoded state events.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Publish never blocks; a subscriber whose buffer is full misses the event
// and catches up on the next one, which carries the whole state.
func (b *Broker) Publish(event StateEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- data:
		default:
		}
	}
	b.mu.RUnlock()
}

// Listener publishes every accepted store transition.
func (b *Broker) Listener() engine.Listener {
	return func(action engine.Action, state gruppenspiel.GameState) {
		b.Publish(StateEvent{Action: action.Type(), State: state})
	}
}

func snapshotEvent(host *engine.Host) []byte {
	data, _ := json.Marshal(StateEvent{State: host.Store().Snapshot()})
	return data
}
