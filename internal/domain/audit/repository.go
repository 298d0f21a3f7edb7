package audit

import "context"

// Repository appends audit entries. The log is write-only from the portal;
// retention is handled out of band.
type Repository interface {
	Save(ctx context.Context, e *Entry) error
	ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]*Entry, error)
}
