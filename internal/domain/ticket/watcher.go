package ticket

import (
	"fmt"
	"time"
)

// Watcher subscribes a user to ticket activity. The (ticket, user) pair is
// unique; the store treats duplicate inserts as idempotent success.
type Watcher struct {
	ticketID  uint
	userID    uint
	createdAt time.Time
}

func NewWatcher(ticketID, userID uint, now time.Time) (*Watcher, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	return &Watcher{ticketID: ticketID, userID: userID, createdAt: now}, nil
}

func ReconstructWatcher(ticketID, userID uint, createdAt time.Time) *Watcher {
	return &Watcher{ticketID: ticketID, userID: userID, createdAt: createdAt}
}

func (w *Watcher) TicketID() uint       { return w.ticketID }
func (w *Watcher) UserID() uint         { return w.userID }
func (w *Watcher) CreatedAt() time.Time { return w.createdAt }
