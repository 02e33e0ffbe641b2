package events

import (
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("events")

type Handler func(Event) error

type EventHandler struct {
	On      string
	Handler Handler
}

type Event struct {
	Name   string
	Params map[string]interface{}
}

// Bus fans incoming events out to the handlers registered for their name.
// Handlers for one event run on their own goroutine, in registration order.
type Bus struct {
	// Input channel for incoming events.
	In chan Event

	// On "event" channel. Register event handlers using channels.
	On chan EventHandler

	quit     chan struct{}
	done     chan struct{}
	handlers map[string][]Handler
}

// Boot creates a bus and starts its sink.
func Boot() *Bus {
	bus := &Bus{
		In:       make(chan Event, 10),
		On:       make(chan EventHandler),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		handlers: make(map[string][]Handler),
	}

	go bus.sink()
	return bus
}

// Emit queues an event. Events emitted after Stop are dropped.
func (bus *Bus) Emit(event Event) {
	select {
	case bus.In <- event:
	case <-bus.quit:
	}
}

// Listen registers a handler for the named event.
func (bus *Bus) Listen(name string, handler Handler) {
	select {
	case bus.On <- EventHandler{On: name, Handler: handler}:
	case <-bus.quit:
	}
}

// Stop terminates the sink. Handlers already spawned keep running.
func (bus *Bus) Stop() {
	select {
	case <-bus.quit:
		return
	default:
		close(bus.quit)
	}

	<-bus.done
}

func execHandlers(list []Handler, event Event) {
	for h := range list {
		if err := list[h](event); err != nil {
			log.Errorf("handler for %s failed: %v", event.Name, err)
		}
	}
}

func (bus *Bus) sink() {
	defer close(bus.done)

	for {
		select {
		case event := <-bus.In: // For incoming events spawn a goroutine running handlers.
			log.Debugf("Incoming event: %+v", event)
			if ls, exists := bus.handlers[event.Name]; exists {
				list := make([]Handler, len(ls))
				copy(list, ls)
				go execHandlers(list, event)
			}
		case h := <-bus.On: // Register new handlers.
			bus.handlers[h.On] = append(bus.handlers[h.On], h.Handler)
		case <-bus.quit:
			return
		}
	}
}
