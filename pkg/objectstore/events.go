package objectstore

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event names emitted by the facade. Exactly one event per successful
// mutating operation, dispatched after the storage and metadata writes.
const (
	EventCreateContainer = "container.create"
	EventUpdateContainer = "container.update"
	EventRemoveContainer = "container.remove"
	EventUpdateObject    = "object.update"
	EventCopyObject      = "object.copy"
	EventRemoveObject    = "object.remove"
)

// Event is the payload delivered to dispatchers. Either Container or
// Object is set, carrying the final state of the affected entity.
type Event struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Time      time.Time  `json:"time"`
	Container *Container `json:"container,omitempty"`
	Object    *Object    `json:"object,omitempty"`
}

func newContainerEvent(name string, container *Container) *Event {
	return &Event{
		ID:        uuid.New(),
		Name:      name,
		Time:      time.Now().UTC(),
		Container: container,
	}
}

func newObjectEvent(name string, object *Object) *Event {
	return &Event{
		ID:     uuid.New(),
		Name:   name,
		Time:   time.Now().UTC(),
		Object: object,
	}
}

// NoopDispatcher discards all events. It is the default dispatcher.
type NoopDispatcher struct{}

// NewNoopDispatcher creates a dispatcher that discards all events.
func NewNoopDispatcher() EventDispatcher {
	return &NoopDispatcher{}
}

// Dispatch does nothing.
func (d *NoopDispatcher) Dispatch(ctx context.Context, event *Event) {}

// LoggingDispatcher logs each event but takes no other action. Useful
// for development and debugging.
type LoggingDispatcher struct {
	logger *slog.Logger
}

// NewLoggingDispatcher creates a dispatcher that logs events through
// the given logger.
func NewLoggingDispatcher(logger *slog.Logger) *LoggingDispatcher {
	return &LoggingDispatcher{logger: logger}
}

// Dispatch logs the event at info level.
func (d *LoggingDispatcher) Dispatch(ctx context.Context, event *Event) {
	attrs := []any{"event", event.Name, "event_id", event.ID}
	if event.Container != nil {
		attrs = append(attrs, "container", event.Container.Name)
	}
	if event.Object != nil {
		attrs = append(attrs, "object", event.Object.Path())
	}
	d.logger.InfoContext(ctx, "objectstore event", attrs...)
}

// ListenerFunc handles a dispatched event. A returned error is logged
// and otherwise ignored; it never reaches the triggering caller.
type ListenerFunc func(ctx context.Context, event *Event) error

// Mux fans events out to listeners registered per event name.
// Listeners run synchronously on the dispatching goroutine, in
// registration order.
type Mux struct {
	mu        sync.RWMutex
	listeners map[string][]ListenerFunc
	logger    *slog.Logger
}

// NewMux creates an empty dispatcher mux.
func NewMux() *Mux {
	return &Mux{
		listeners: make(map[string][]ListenerFunc),
		logger:    slog.Default(),
	}
}

// Subscribe registers a listener for the named event.
func (m *Mux) Subscribe(name string, fn ListenerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners[name] = append(m.listeners[name], fn)
}

// Dispatch invokes every listener registered for the event's name.
func (m *Mux) Dispatch(ctx context.Context, event *Event) {
	m.mu.RLock()
	fns := m.listeners[event.Name]
	m.mu.RUnlock()

	for _, fn := range fns {
		if err := fn(ctx, event); err != nil {
			m.logger.ErrorContext(ctx, "event listener failed",
				"event", event.Name, "event_id", event.ID, "err", err)
		}
	}
}
