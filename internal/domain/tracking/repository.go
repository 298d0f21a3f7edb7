package tracking

import "context"

// Repository persists trackings and their hits. Event writes must succeed
// even when the tracking ID was never issued.
type Repository interface {
	Save(ctx context.Context, t *Tracking) error
	GetByID(ctx context.Context, id string) (*Tracking, error)
	SaveEvent(ctx context.Context, e *Event) error
	ListEvents(ctx context.Context, trackingID string, limit int) ([]*Event, error)
}
