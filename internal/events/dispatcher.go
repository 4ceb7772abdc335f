package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher fans storefront events out to subscribers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// syncDispatcher delivers events on the publishing goroutine.
type syncDispatcher struct {
	mu          sync.RWMutex
	subscribers map[EventType][]EventHandler
}

// NewInMemoryDispatcher creates a dispatcher living in process memory.
func NewInMemoryDispatcher() Dispatcher {
	return &syncDispatcher{subscribers: make(map[EventType][]EventHandler)}
}

// Publish hands event to every subscriber of its type. A failing subscriber
// does not stop delivery to the rest; all failures come back joined.
func (d *syncDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	subscribers := d.subscribers[event.Type]
	d.mu.RUnlock()

	var failures []error
	for i, deliver := range subscribers {
		if err := deliver(ctx, event); err != nil {
			failures = append(failures, fmt.Errorf("%s subscriber %d (%s): %w", event.Type, i, event.Subject, err))
		}
	}
	return errors.Join(failures...)
}

// Subscribe registers handler for eventType.
func (d *syncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	// copy on write; Publish iterates a snapshot
	next := make([]EventHandler, 0, len(d.subscribers[eventType])+1)
	next = append(next, d.subscribers[eventType]...)
	d.subscribers[eventType] = append(next, handler)
}
