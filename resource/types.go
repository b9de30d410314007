package resource

// EventType identifies a stream lifecycle notification.
type EventType uint8

const (
	EventOpened EventType = iota
	EventReleased
)

func (t EventType) String() string {
	switch t {
	case EventOpened:
		return "opened"
	case EventReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Event describes one stream lifecycle step.
type Event struct {
	Module   string
	Resource string
	Type     EventType
}

// Observer receives notifications about resource stream lifecycle events.
// Notifications are delivered synchronously on the goroutine that opened
// or released the stream.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// OnResourceEvent calls f(e).
func (f ObserverFunc) OnResourceEvent(e Event) {
	f(e)
}
