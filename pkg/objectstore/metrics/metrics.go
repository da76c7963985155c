// Package metrics provides an event dispatcher that counts lifecycle
// events with Prometheus before forwarding them.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/quartzlabs/objectstore/pkg/objectstore"
)

// Dispatcher counts every dispatched event by name and forwards it to
// the wrapped dispatcher.
type Dispatcher struct {
	next   objectstore.EventDispatcher
	events *prometheus.CounterVec
}

// NewDispatcher creates a counting dispatcher registered on reg. A nil
// next dispatcher only counts.
func NewDispatcher(next objectstore.EventDispatcher, reg prometheus.Registerer) *Dispatcher {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "objectstore",
		Name:      "events_total",
		Help:      "Lifecycle events dispatched, by event name.",
	}, []string{"event"})
	reg.MustRegister(events)

	return &Dispatcher{next: next, events: events}
}

// Dispatch increments the counter for the event name and forwards the
// event.
func (d *Dispatcher) Dispatch(ctx context.Context, event *objectstore.Event) {
	d.events.WithLabelValues(event.Name).Inc()
	if d.next != nil {
		d.next.Dispatch(ctx, event)
	}
}
