package game

import "testing"

func recordTransitions(bus *EventBus) *[]Event {
	var events []Event
	for _, t := range []EventType{EventModeExit, EventModeEnter, EventModeChanged} {
		bus.Subscribe(t, func(e Event) { events = append(events, e) })
	}
	return &events
}

func TestModeMachineBasicTransitions(t *testing.T) {
	m := NewModeMachine(NewEventBus())

	m.Step(ModeSignals{RollPressed: true, RollHeld: true})
	if m.Mode() != ModeRolling {
		t.Fatalf("mode = %v, want rolling", m.Mode())
	}

	m.Step(ModeSignals{}) // roll released, nothing held
	if m.Mode() != ModeDefault {
		t.Fatalf("mode = %v, want default", m.Mode())
	}

	m.Step(ModeSignals{JumpPressed: true, JumpHeld: true})
	if m.Mode() != ModeJumping {
		t.Fatalf("mode = %v, want jumping", m.Mode())
	}

	m.Step(ModeSignals{})
	if m.Mode() != ModeDefault {
		t.Fatalf("mode = %v, want default", m.Mode())
	}
}

func TestSimultaneousPressJumpWins(t *testing.T) {
	m := NewModeMachine(NewEventBus())
	m.Step(ModeSignals{RollPressed: true, RollHeld: true, JumpPressed: true, JumpHeld: true})
	if m.Mode() != ModeJumping {
		t.Fatalf("mode = %v, want jumping on simultaneous press", m.Mode())
	}
}

func TestDirectRollJumpTransitions(t *testing.T) {
	m := NewModeMachine(NewEventBus())

	// Rolling, then jump pressed: direct preemption.
	m.Step(ModeSignals{RollPressed: true, RollHeld: true})
	m.Step(ModeSignals{RollHeld: true, JumpPressed: true, JumpHeld: true})
	if m.Mode() != ModeJumping {
		t.Fatalf("mode = %v, want jumping after preemption", m.Mode())
	}
	if m.Previous() != ModeRolling {
		t.Fatalf("previous = %v, want rolling", m.Previous())
	}

	// Jump released with roll still held: straight back to rolling.
	m.Step(ModeSignals{RollHeld: true})
	if m.Mode() != ModeRolling {
		t.Fatalf("mode = %v, want rolling after jump release", m.Mode())
	}

	// Roll released with jump held: straight to jumping.
	m.Step(ModeSignals{JumpHeld: true})
	if m.Mode() != ModeJumping {
		t.Fatalf("mode = %v, want jumping after roll release", m.Mode())
	}
}

func TestTransitionEventOrder(t *testing.T) {
	bus := NewEventBus()
	events := recordTransitions(bus)
	m := NewModeMachine(bus)

	m.Step(ModeSignals{RollPressed: true, RollHeld: true})

	got := *events
	if len(got) != 3 {
		t.Fatalf("events = %d, want 3", len(got))
	}
	if got[0].Type != EventModeExit || got[0].Mode != ModeDefault {
		t.Fatalf("first event = %+v, want exit default", got[0])
	}
	if got[1].Type != EventModeEnter || got[1].Mode != ModeRolling {
		t.Fatalf("second event = %+v, want enter rolling", got[1])
	}
	if got[2].Type != EventModeChanged || got[2].From != ModeDefault || got[2].To != ModeRolling {
		t.Fatalf("third event = %+v, want changed default->rolling", got[2])
	}
}

func TestSameStateRequestCountedNotFatal(t *testing.T) {
	m := NewModeMachine(NewEventBus())
	m.transition(ModeDefault)
	if m.Mode() != ModeDefault {
		t.Fatalf("mode changed on same-state request")
	}
	if m.invalidRequests != 1 {
		t.Fatalf("invalidRequests = %d, want 1", m.invalidRequests)
	}
}
