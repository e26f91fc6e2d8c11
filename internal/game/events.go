package game

type EventType int

const (
	EventModeChanged EventType = iota
	EventModeEnter
	EventModeExit
	EventGrabAttach
	EventGrabRelease
	EventHardLanding
)

type Event struct {
	Type EventType
	Mode Mode // entered/exited mode, or the new mode for EventModeChanged
	From Mode // previous mode on transitions
	To   Mode // next mode on transitions (lets an exit handler see where we go)
	X, Y float64
}

type EventHandler func(Event)

type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
