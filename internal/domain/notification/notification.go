// Package notification models the in-app feed, the per-event catalog, and
// per-user channel preferences.
package notification

import (
	"fmt"
	"time"
)

// Notification is one in-app feed row. A nil userID marks a broadcast row
// visible to everyone.
type Notification struct {
	id        uint
	userID    *uint
	eventType string
	message   string
	metadata  map[string]any
	createdAt time.Time
	readAt    *time.Time
}

func NewNotification(userID *uint, eventType, message string, metadata map[string]any, now time.Time) (*Notification, error) {
	if eventType == "" {
		return nil, fmt.Errorf("event type is required")
	}
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}
	if userID != nil && *userID == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}

	return &Notification{
		userID:    userID,
		eventType: eventType,
		message:   message,
		metadata:  metadata,
		createdAt: now,
	}, nil
}

func ReconstructNotification(id uint, userID *uint, eventType, message string, metadata map[string]any, createdAt time.Time, readAt *time.Time) *Notification {
	return &Notification{
		id:        id,
		userID:    userID,
		eventType: eventType,
		message:   message,
		metadata:  metadata,
		createdAt: createdAt,
		readAt:    readAt,
	}
}

func (n *Notification) ID() uint             { return n.id }
func (n *Notification) UserID() *uint        { return n.userID }
func (n *Notification) EventType() string    { return n.eventType }
func (n *Notification) Message() string      { return n.message }
func (n *Notification) CreatedAt() time.Time { return n.createdAt }
func (n *Notification) ReadAt() *time.Time   { return n.readAt }
func (n *Notification) IsBroadcast() bool    { return n.userID == nil }

func (n *Notification) Metadata() map[string]any {
	out := make(map[string]any, len(n.metadata))
	for k, v := range n.metadata {
		out[k] = v
	}
	return out
}

func (n *Notification) SetID(id uint) { n.id = id }

// MarkRead is idempotent; the first read timestamp wins.
func (n *Notification) MarkRead(now time.Time) {
	if n.readAt == nil {
		read := now
		n.readAt = &read
	}
}
