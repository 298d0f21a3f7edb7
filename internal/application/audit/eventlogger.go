package audit

import (
	"context"
	"time"

	"github.com/praxisops/praxis/internal/domain/shared/events"
)

const eventLogTimeout = 5 * time.Second

// EventLogger mirrors every bus event into the audit log, so the trail
// captures mutations regardless of which surface performed them.
type EventLogger struct {
	recorder *Recorder
}

func NewEventLogger(recorder *Recorder) *EventLogger {
	return &EventLogger{recorder: recorder}
}

// Register subscribes the logger to every event type.
func (l *EventLogger) Register(subscriber events.Subscriber) error {
	return subscriber.Subscribe(events.WildcardEventType, l)
}

func (l *EventLogger) Name() string { return "audit-event-logger" }

func (l *EventLogger) Handle(event events.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), eventLogTimeout)
	defer cancel()

	rec := Record{
		Action:     event.EventType,
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		New:        event.Payload,
	}
	if event.Actor != nil {
		if event.Actor.UserID != 0 {
			userID := event.Actor.UserID
			rec.UserID = &userID
		}
		rec.APIKey = event.Actor.APIKey
	}

	l.recorder.Record(ctx, rec)
	return nil
}
