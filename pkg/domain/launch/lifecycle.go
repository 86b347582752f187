package launch

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Lifecycle phases. Untyped string constants for statekit.StateID.
const (
	PhaseParsing           = "parsing"
	PhaseDispatching       = "dispatching"
	PhaseListingEngines    = "listing_engines"
	PhaseListingTests      = "listing_tests"
	PhaseShowingHelp       = "showing_help"
	PhaseExecuting         = "executing"
	PhaseSucceeded         = "succeeded"
	PhaseFailedWithSummary = "failed_with_summary"
	PhaseFailedInternally  = "failed_internally"
)

const (
	eventParsed  = "parsed"
	eventReject  = "reject"
	eventSucceed = "succeed"
	eventFail    = "fail"
	eventFault   = "fault"

	eventDispatchListEngines = "dispatch_list_engines"
	eventDispatchListTests   = "dispatch_list_tests"
	eventDispatchShowHelp    = "dispatch_show_help"
	eventDispatchExecute     = "dispatch_execute"
)

// LifecycleContext carries data available to the machine.
type LifecycleContext struct {
	Program string
}

// Lifecycle tracks one invocation: parsing, dispatch to exactly one mode,
// and exactly one terminal outcome. Terminal phases have no transitions, so
// a second outcome for the same invocation is rejected.
type Lifecycle struct {
	interpreter *statekit.Interpreter[LifecycleContext]
}

// NewLifecycle builds and starts the machine in the parsing phase.
func NewLifecycle(program string) (*Lifecycle, error) {
	builder := statekit.NewMachine[LifecycleContext]("launch-lifecycle").
		WithInitial(statekit.StateID(PhaseParsing)).
		WithContext(LifecycleContext{Program: program})

	builder.State(PhaseParsing).
		On(eventParsed).Target(PhaseDispatching).
		On(eventReject).Target(PhaseFailedInternally).
		Done()

	builder.State(PhaseDispatching).
		On(eventDispatchListEngines).Target(PhaseListingEngines).
		On(eventDispatchListTests).Target(PhaseListingTests).
		On(eventDispatchShowHelp).Target(PhaseShowingHelp).
		On(eventDispatchExecute).Target(PhaseExecuting).
		Done()

	builder.State(PhaseListingEngines).
		On(eventSucceed).Target(PhaseSucceeded).
		Done()

	builder.State(PhaseShowingHelp).
		On(eventSucceed).Target(PhaseSucceeded).
		Done()

	builder.State(PhaseListingTests).
		On(eventSucceed).Target(PhaseSucceeded).
		On(eventFail).Target(PhaseFailedWithSummary).
		On(eventFault).Target(PhaseFailedInternally).
		Done()

	builder.State(PhaseExecuting).
		On(eventSucceed).Target(PhaseSucceeded).
		On(eventFail).Target(PhaseFailedWithSummary).
		On(eventFault).Target(PhaseFailedInternally).
		Done()

	builder.State(PhaseSucceeded).Done()
	builder.State(PhaseFailedWithSummary).Done()
	builder.State(PhaseFailedInternally).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build launch lifecycle: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &Lifecycle{interpreter: interpreter}, nil
}

func dispatchEvent(m Mode) string {
	switch m {
	case ModeListEngines:
		return eventDispatchListEngines
	case ModeListTests:
		return eventDispatchListTests
	case ModeShowHelp:
		return eventDispatchShowHelp
	default:
		return eventDispatchExecute
	}
}

// Parsed records that the options were parsed successfully.
func (l *Lifecycle) Parsed() error {
	return l.send(eventParsed)
}

// Rejected records a configuration failure. It returns the outcome to report.
func (l *Lifecycle) Rejected() (Outcome, error) {
	return ConfigurationFailure(), l.send(eventReject)
}

// Dispatch moves into the phase for mode.
func (l *Lifecycle) Dispatch(mode Mode) error {
	return l.send(dispatchEvent(mode))
}

// Finish records the terminal outcome of the dispatched mode.
func (l *Lifecycle) Finish(o Outcome) (Outcome, error) {
	var event string
	switch o.Kind() {
	case Succeeded:
		event = eventSucceed
	case FailedWithSummary:
		event = eventFail
	default:
		event = eventFault
	}
	return o, l.send(event)
}

// Phase returns the current phase.
func (l *Lifecycle) Phase() string {
	return string(l.interpreter.State().Value)
}

// Terminal reports whether an outcome has been recorded.
func (l *Lifecycle) Terminal() bool {
	switch l.Phase() {
	case PhaseSucceeded, PhaseFailedWithSummary, PhaseFailedInternally:
		return true
	}
	return false
}

func (l *Lifecycle) send(event string) error {
	before := l.Phase()
	l.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if l.Phase() != before {
		return nil
	}
	return fmt.Errorf("launch lifecycle: event %q is not allowed in phase %q", event, before)
}
