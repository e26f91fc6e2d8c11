package game

// Mode is the exclusive locomotion mode. Default means neither Rolling nor
// Jumping is active; Movement and Grab run in every mode.
type Mode int

const (
	ModeDefault Mode = iota
	ModeRolling
	ModeJumping
)

func (m Mode) String() string {
	switch m {
	case ModeRolling:
		return "rolling"
	case ModeJumping:
		return "jumping"
	default:
		return "default"
	}
}

// ModeSignals are the per-frame edge/level inputs the machine dispatches on.
type ModeSignals struct {
	RollHeld    bool
	JumpHeld    bool
	RollPressed bool
	JumpPressed bool
}

// ModeMachine is the three-state locomotion mode machine. Transitions emit
// EventModeExit for the old mode, EventModeEnter for the new one, then
// EventModeChanged; the two exclusive abilities subscribe to enter/exit.
type ModeMachine struct {
	mode Mode
	prev Mode
	bus  *EventBus

	invalidRequests int // same-state transition requests, counted and ignored
}

func NewModeMachine(bus *EventBus) *ModeMachine {
	return &ModeMachine{mode: ModeDefault, prev: ModeDefault, bus: bus}
}

func (m *ModeMachine) Mode() Mode     { return m.mode }
func (m *ModeMachine) Previous() Mode { return m.prev }

// Step applies the fixed (state x signal) dispatch for one frame.
// Jump edges are checked before roll edges, which makes the simultaneous
// press from Default deterministic: jump wins.
func (m *ModeMachine) Step(sig ModeSignals) {
	switch m.mode {
	case ModeDefault:
		if sig.JumpPressed {
			m.transition(ModeJumping)
		} else if sig.RollPressed {
			m.transition(ModeRolling)
		}

	case ModeRolling:
		if sig.JumpPressed {
			// Direct preemption, no pass through Default.
			m.transition(ModeJumping)
		} else if !sig.RollHeld {
			if sig.JumpHeld {
				m.transition(ModeJumping)
			} else {
				m.transition(ModeDefault)
			}
		}

	case ModeJumping:
		if sig.RollPressed {
			m.transition(ModeRolling)
		} else if !sig.JumpHeld {
			if sig.RollHeld {
				m.transition(ModeRolling)
			} else {
				m.transition(ModeDefault)
			}
		}
	}
}

func (m *ModeMachine) transition(to Mode) {
	if to == m.mode {
		m.invalidRequests++
		return
	}
	from := m.mode
	m.prev = from
	m.mode = to

	if m.bus != nil {
		m.bus.Emit(Event{Type: EventModeExit, Mode: from, From: from, To: to})
		m.bus.Emit(Event{Type: EventModeEnter, Mode: to, From: from, To: to})
		m.bus.Emit(Event{Type: EventModeChanged, Mode: to, From: from, To: to})
	}
}
