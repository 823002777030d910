package status

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/justify-app/justify/internal/bus"
)

// State represents the conversation panel state.
type State string

const (
	Idle    State = "IDLE"
	Loading State = "LOADING"
	Ready   State = "READY"
	Error   State = "ERROR"
)

// validTransitions defines allowed panel state transitions. Error and Ready
// both return to Loading on a retry or counterpart switch; Ready drops to
// Error when a background refresh fails; anything can be closed back to Idle.
var validTransitions = map[State][]State{
	Idle:    {Loading},
	Loading: {Ready, Error, Idle},
	Ready:   {Loading, Error, Idle},
	Error:   {Loading, Ready, Idle},
}

// Machine tracks and enforces conversation panel state transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewMachine creates a new state machine starting in Idle state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Idle,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. Returns error if transition is invalid.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if to == m.current {
		return nil
	}
	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Kind:      bus.KindInboxUpdated,
			Timestamp: time.Now(),
			Payload: StatusChange{
				From: from,
				To:   to,
			},
		})
	}
	return nil
}

// StatusChange is the payload for panel state change events.
type StatusChange struct {
	From State
	To   State
}
