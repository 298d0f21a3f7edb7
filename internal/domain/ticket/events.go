package ticket

import (
	"strconv"
	"time"

	"github.com/praxisops/praxis/internal/domain/shared/events"
)

// Event types produced by the ticket lifecycle core.
const (
	EventTicketCreated  = "ticket.created"
	EventTicketUpdated  = "ticket.updated"
	EventReplyAdded     = "ticket.reply_added"
	EventWatcherAdded   = "ticket.watcher_added"
	EventWatcherRemoved = "ticket.watcher_removed"

	entityTypeTicket = "ticket"
)

func ticketPayload(t *Ticket) map[string]any {
	payload := map[string]any{
		"ticket_id": t.ID(),
		"subject":   t.Subject(),
		"status":    t.Status(),
		"priority":  t.Priority(),
	}
	if t.Category() != "" {
		payload["category"] = t.Category()
	}
	if t.ModuleSlug() != "" {
		payload["module_slug"] = t.ModuleSlug()
	}
	if t.CompanyID() != nil {
		payload["company_id"] = *t.CompanyID()
	}
	payload["requester_id"] = t.RequesterID()
	if t.AssignedUserID() != nil {
		payload["assigned_user_id"] = *t.AssignedUserID()
	}
	return payload
}

// NewTicketCreatedEvent builds the ticket.created event for a persisted ticket.
func NewTicketCreatedEvent(t *Ticket, actor *events.Actor) events.Event {
	return events.Event{
		EventType:  EventTicketCreated,
		EntityType: entityTypeTicket,
		EntityID:   strconv.FormatUint(uint64(t.ID()), 10),
		Payload:    ticketPayload(t),
		Actor:      actor,
		OccurredAt: t.CreatedAt(),
	}
}

// NewTicketUpdatedEvent builds the ticket.updated event. changed names the
// patched fields so automation filters can match on them.
func NewTicketUpdatedEvent(t *Ticket, changed []string, previousStatus string, actor *events.Actor) events.Event {
	payload := ticketPayload(t)
	payload["changed_fields"] = changed
	if previousStatus != "" && previousStatus != t.Status() {
		payload["previous_status"] = previousStatus
	}

	return events.Event{
		EventType:  EventTicketUpdated,
		EntityType: entityTypeTicket,
		EntityID:   strconv.FormatUint(uint64(t.ID()), 10),
		Payload:    payload,
		Actor:      actor,
		OccurredAt: t.UpdatedAt(),
	}
}

// NewReplyAddedEvent builds the ticket.reply_added event.
func NewReplyAddedEvent(t *Ticket, r *Reply, actor *events.Actor) events.Event {
	payload := ticketPayload(t)
	payload["reply_id"] = r.ID()
	payload["is_internal"] = r.IsInternal()
	if r.AuthorID() != nil {
		payload["author_id"] = *r.AuthorID()
	}

	return events.Event{
		EventType:  EventReplyAdded,
		EntityType: entityTypeTicket,
		EntityID:   strconv.FormatUint(uint64(t.ID()), 10),
		Payload:    payload,
		Actor:      actor,
		OccurredAt: r.CreatedAt(),
	}
}

// NewWatcherEvent builds watcher add/remove events.
func NewWatcherEvent(eventType string, t *Ticket, userID uint, actor *events.Actor, now time.Time) events.Event {
	payload := ticketPayload(t)
	payload["watcher_user_id"] = userID

	return events.Event{
		EventType:  eventType,
		EntityType: entityTypeTicket,
		EntityID:   strconv.FormatUint(uint64(t.ID()), 10),
		Payload:    payload,
		Actor:      actor,
		OccurredAt: now,
	}
}
