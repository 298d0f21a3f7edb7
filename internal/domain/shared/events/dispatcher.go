package events

import (
	"fmt"
	"sync"

	"github.com/praxisops/praxis/internal/shared/logger"
)

// WildcardEventType subscribes a handler to every event on the bus.
const WildcardEventType = "*"

// InMemoryDispatcher is a single-process bus. Events are queued on a buffered
// channel and drained by one worker goroutine, so delivery order matches
// publish order and per-entity ordering follows commit order. There is no
// durability: events in flight when the process dies are dropped.
type InMemoryDispatcher struct {
	handlers map[string][]Handler
	mu       sync.RWMutex
	running  bool
	stopCh   chan struct{}
	eventCh  chan Event
	wg       sync.WaitGroup
	logger   logger.Interface
}

func NewInMemoryDispatcher(bufferSize int, log logger.Interface) *InMemoryDispatcher {
	if bufferSize <= 0 {
		bufferSize = 256
	}

	return &InMemoryDispatcher{
		handlers: make(map[string][]Handler),
		stopCh:   make(chan struct{}),
		eventCh:  make(chan Event, bufferSize),
		logger:   log,
	}
}

// Publish enqueues a single event. Callers publish only after their
// transaction has committed.
func (d *InMemoryDispatcher) Publish(event Event) error {
	d.mu.RLock()
	running := d.running
	d.mu.RUnlock()
	if !running {
		return fmt.Errorf("event dispatcher is not running")
	}

	select {
	case d.eventCh <- event:
		return nil
	default:
		return fmt.Errorf("event channel is full")
	}
}

// PublishAll enqueues events preserving their order.
func (d *InMemoryDispatcher) PublishAll(events []Event) error {
	for _, event := range events {
		if err := d.Publish(event); err != nil {
			return fmt.Errorf("failed to publish event %s: %w", event.EventType, err)
		}
	}
	return nil
}

// Subscribe registers a handler for an event type, or for every event when
// eventType is the wildcard. Registration happens at startup, before Start.
func (d *InMemoryDispatcher) Subscribe(eventType string, handler Handler) error {
	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
	return nil
}

func (d *InMemoryDispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return fmt.Errorf("event dispatcher is already running")
	}

	d.running = true
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.processEvents()
	}()

	return nil
}

func (d *InMemoryDispatcher) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return fmt.Errorf("event dispatcher is not running")
	}
	d.running = false
	d.mu.Unlock()

	close(d.stopCh)
	d.wg.Wait()
	return nil
}

func (d *InMemoryDispatcher) processEvents() {
	for {
		select {
		case <-d.stopCh:
			// Drain whatever is already queued before shutting down.
			for {
				select {
				case event := <-d.eventCh:
					d.handleEvent(event)
				default:
					return
				}
			}
		case event := <-d.eventCh:
			d.handleEvent(event)
		}
	}
}

// handleEvent delivers one event to each matching subscriber sequentially.
// A failing or panicking subscriber is logged and does not block peers.
func (d *InMemoryDispatcher) handleEvent(event Event) {
	d.mu.RLock()
	handlers := make([]Handler, 0, len(d.handlers[event.EventType])+len(d.handlers[WildcardEventType]))
	handlers = append(handlers, d.handlers[event.EventType]...)
	handlers = append(handlers, d.handlers[WildcardEventType]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		d.deliver(handler, event)
	}
}

func (d *InMemoryDispatcher) deliver(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Errorw("event subscriber panicked",
				"subscriber", handler.Name(),
				"event_type", event.EventType,
				"entity_id", event.EntityID,
				"panic", fmt.Sprintf("%v", r),
			)
		}
	}()

	if err := handler.Handle(event); err != nil {
		d.logger.Errorw("event subscriber failed",
			"subscriber", handler.Name(),
			"event_type", event.EventType,
			"entity_id", event.EntityID,
			"error", err,
		)
	}
}
