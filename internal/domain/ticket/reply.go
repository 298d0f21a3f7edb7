package ticket

import (
	"fmt"
	"time"
)

// Reply is a message on a ticket. The body arrives already sanitized; an
// empty body after sanitization is rejected. A nil author marks a
// system-generated reply.
type Reply struct {
	id         uint
	ticketID   uint
	authorID   *uint
	body       string
	isInternal bool
	createdAt  time.Time
}

func NewReply(ticketID uint, authorID *uint, body string, isInternal bool, now time.Time) (*Reply, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if body == "" {
		return nil, fmt.Errorf("reply body is empty after sanitization")
	}
	if authorID != nil && *authorID == 0 {
		return nil, fmt.Errorf("author ID cannot be zero")
	}

	return &Reply{
		ticketID:   ticketID,
		authorID:   authorID,
		body:       body,
		isInternal: isInternal,
		createdAt:  now,
	}, nil
}

func ReconstructReply(id, ticketID uint, authorID *uint, body string, isInternal bool, createdAt time.Time) (*Reply, error) {
	if id == 0 {
		return nil, fmt.Errorf("reply ID cannot be zero")
	}
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}

	return &Reply{
		id:         id,
		ticketID:   ticketID,
		authorID:   authorID,
		body:       body,
		isInternal: isInternal,
		createdAt:  createdAt,
	}, nil
}

func (r *Reply) ID() uint             { return r.id }
func (r *Reply) TicketID() uint       { return r.ticketID }
func (r *Reply) AuthorID() *uint      { return r.authorID }
func (r *Reply) Body() string         { return r.body }
func (r *Reply) IsInternal() bool     { return r.isInternal }
func (r *Reply) CreatedAt() time.Time { return r.createdAt }

// IsSystem reports whether the reply was generated without a human author.
func (r *Reply) IsSystem() bool { return r.authorID == nil }

func (r *Reply) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("reply ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("reply ID cannot be zero")
	}
	r.id = id
	return nil
}
