package events

import (
	"errors"

	"github.com/asaskevich/EventBus"
)

// AnyField is the topic every change is published on in addition to its own field topic.
const AnyField = "*"

// ErrDispatching is returned when a handler tries to change subscriptions
// while a change is being delivered.
var ErrDispatching = errors.New("cannot change subscriptions while a change is being delivered")

// Change describes a single field mutation on an entity
type Change struct {
	Field string
	Old   interface{}
	New   interface{}
}

// ChangeHandler receives field changes
type ChangeHandler func(Change)

// Notifier publishes field changes to subscribers keyed by field name.
//
// Handlers run synchronously on the publishing goroutine. A change published
// from inside a handler, e.g. by a handler that edits the entity, is queued
// and delivered after the current one. Subscribe and Unsubscribe called from
// inside a handler return ErrDispatching. The zero value is ready to use.
type Notifier struct {
	bus         EventBus.Bus
	subscribers map[string]int
	dispatching bool
	queued      []Change
}

func (n *Notifier) eventBus() EventBus.Bus {
	if n.bus == nil {
		n.bus = EventBus.New()
	}
	return n.bus
}

// Subscribe registers handler for changes to field. It fails with
// ErrDispatching when called from a handler.
func (n *Notifier) Subscribe(field string, handler ChangeHandler) error {
	if n.dispatching {
		return ErrDispatching
	}
	if err := n.eventBus().Subscribe(field, handler); err != nil {
		return err
	}
	if n.subscribers == nil {
		n.subscribers = make(map[string]int)
	}
	n.subscribers[field]++
	return nil
}

// SubscribeAll registers handler for changes to any field
func (n *Notifier) SubscribeAll(handler ChangeHandler) error {
	return n.Subscribe(AnyField, handler)
}

// Unsubscribe removes a handler previously registered for field
func (n *Notifier) Unsubscribe(field string, handler ChangeHandler) error {
	if n.dispatching {
		return ErrDispatching
	}
	if err := n.eventBus().Unsubscribe(field, handler); err != nil {
		return err
	}
	if n.subscribers[field] > 0 {
		n.subscribers[field]--
	}
	return nil
}

// HasSubscribers reports whether any handler listens on field
func (n *Notifier) HasSubscribers(field string) bool {
	return n.subscribers[field] > 0
}

// Publish delivers c to the field's subscribers, then to AnyField subscribers
func (n *Notifier) Publish(c Change) {
	if n.bus == nil {
		return
	}
	if n.dispatching {
		n.queued = append(n.queued, c)
		return
	}
	n.dispatching = true
	defer func() {
		n.dispatching = false
		n.queued = nil
	}()

	for {
		n.bus.Publish(c.Field, c)
		n.bus.Publish(AnyField, c)
		if len(n.queued) == 0 {
			return
		}
		c, n.queued = n.queued[0], n.queued[1:]
	}
}
