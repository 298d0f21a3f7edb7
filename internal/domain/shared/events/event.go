// Package events provides the in-process event bus that fans ticket activity
// out to the automation engine and the notification dispatcher.
package events

import "time"

// Actor describes who caused an event, when known.
type Actor struct {
	UserID uint   `json:"user_id,omitempty"`
	APIKey string `json:"api_key,omitempty"`
	Label  string `json:"label,omitempty"`
}

// Event is a committed fact crossing the bus. Payload is a dense map so
// automation filters and notification templates can address fields by name.
type Event struct {
	EventType  string         `json:"event_type"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Payload    map[string]any `json:"payload"`
	Actor      *Actor         `json:"actor,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Handler processes a delivered event. Errors are logged by the dispatcher
// and never block sibling subscribers.
type Handler interface {
	Handle(event Event) error
	Name() string
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc struct {
	HandlerName string
	Fn          func(event Event) error
}

func (h HandlerFunc) Handle(event Event) error { return h.Fn(event) }
func (h HandlerFunc) Name() string             { return h.HandlerName }

// Publisher publishes committed events onto the bus.
type Publisher interface {
	Publish(event Event) error
	PublishAll(events []Event) error
}

// Subscriber registers handlers. The wildcard event type "*" receives every event.
type Subscriber interface {
	Subscribe(eventType string, handler Handler) error
}

// Dispatcher combines publishing and subscription with lifecycle control.
type Dispatcher interface {
	Publisher
	Subscriber
	Start() error
	Stop() error
}
