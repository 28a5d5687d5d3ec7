// Package session tracks where an interactive quoting session is in its
// collect, price, display and save cycle.
package session

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// State identifiers for statekit.
const (
	StateCollecting  = "collecting"
	StateCalculating = "calculating"
	StateDisplaying  = "displaying"
	StatePersisting  = "persisting"
	StateTerminated  = "terminated"
)

// Events accepted by the machine.
const (
	EventCalculate = "calculate"
	EventDisplay   = "display"
	EventPersist   = "persist"
	EventRepeat    = "repeat"
	EventTerminate = "terminate"
)

// Context carries per-session data through the machine.
type Context struct {
	SessionID string
}

type Machine struct {
	interpreter *statekit.Interpreter[Context]
}

// NewMachine builds a machine starting in the collecting state.
func NewMachine(sessionID string) (*Machine, error) {
	builder := statekit.NewMachine[Context]("quote-session").
		WithInitial(statekit.StateID(StateCollecting)).
		WithContext(Context{SessionID: sessionID})

	builder.State(StateCollecting).
		On(EventCalculate).Target(StateCalculating).
		On(EventTerminate).Target(StateTerminated).
		Done()

	builder.State(StateCalculating).
		On(EventDisplay).Target(StateDisplaying).
		On(EventRepeat).Target(StateCollecting).
		Done()

	builder.State(StateDisplaying).
		On(EventPersist).Target(StatePersisting).
		Done()

	builder.State(StatePersisting).
		On(EventRepeat).Target(StateCollecting).
		On(EventTerminate).Target(StateTerminated).
		Done()

	// Terminated accepts only a repeated terminate, which leaves it unchanged.
	builder.State(StateTerminated).
		On(EventTerminate).Target(StateTerminated).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build session machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &Machine{interpreter: interpreter}, nil
}

// Fire sends an event and reports an error when the current state does not
// accept it.
func (m *Machine) Fire(event string) error {
	before := m.Current()
	if before == StateTerminated {
		return fmt.Errorf("session is terminated, cannot %s", event)
	}
	m.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if m.Current() == before {
		return fmt.Errorf("the action '%s' is not allowed while the session is '%s'", event, before)
	}
	return nil
}

func (m *Machine) Current() string {
	return string(m.interpreter.State().Value)
}

func (m *Machine) IsTerminated() bool {
	return m.Current() == StateTerminated
}
