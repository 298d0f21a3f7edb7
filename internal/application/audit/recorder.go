// Package audit records portal actions into the append-only log.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/praxisops/praxis/internal/domain/audit"
	"github.com/praxisops/praxis/internal/shared/logger"
)

// Record describes one action to log. Previous and New are marshalled to
// JSON; nil values stay empty.
type Record struct {
	UserID     *uint
	Action     string
	EntityType string
	EntityID   string
	Previous   any
	New        any
	Metadata   map[string]any
	APIKey     string
	IP         string
}

// Recorder writes audit entries. Failures are logged and swallowed so an
// audit outage never fails the action being audited.
type Recorder struct {
	entries audit.Repository
	logger  logger.Interface
}

func NewRecorder(entries audit.Repository, log logger.Interface) *Recorder {
	return &Recorder{entries: entries, logger: log}
}

func (r *Recorder) Record(ctx context.Context, rec Record) {
	entry, err := audit.NewEntry(rec.UserID, rec.Action, time.Now().UTC())
	if err != nil {
		r.logger.Errorw("invalid audit record", "action", rec.Action, "error", err)
		return
	}

	entry.WithEntity(rec.EntityType, rec.EntityID)
	entry.WithValues(marshal(rec.Previous), marshal(rec.New))
	if rec.Metadata != nil {
		entry.WithMetadata(marshal(rec.Metadata))
	}
	entry.WithRequest(rec.APIKey, rec.IP)

	if err := r.entries.Save(ctx, entry); err != nil {
		r.logger.Errorw("failed to save audit entry", "action", rec.Action, "entity_type", rec.EntityType, "entity_id", rec.EntityID, "error", err)
	}
}

// ListByEntity returns an entity's trail, newest first.
func (r *Recorder) ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]*audit.Entry, error) {
	return r.entries.ListByEntity(ctx, entityType, entityID, limit)
}

func marshal(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
