// Package tracking models outbound-email open and click tracking.
package tracking

import (
	"fmt"
	"strings"
	"time"
)

// Event kinds.
const (
	KindOpen  = "open"
	KindClick = "click"
)

// Tracking is one tracked outbound email, identified by the UUID embedded
// in its pixel and click URLs.
type Tracking struct {
	id        string
	recipient string
	subject   string
	createdAt time.Time
}

func NewTracking(id, recipient, subject string, now time.Time) (*Tracking, error) {
	if id == "" {
		return nil, fmt.Errorf("tracking id is required")
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return nil, fmt.Errorf("recipient is required")
	}

	return &Tracking{
		id:        id,
		recipient: recipient,
		subject:   subject,
		createdAt: now,
	}, nil
}

func ReconstructTracking(id, recipient, subject string, createdAt time.Time) *Tracking {
	return &Tracking{id: id, recipient: recipient, subject: subject, createdAt: createdAt}
}

func (t *Tracking) ID() string           { return t.id }
func (t *Tracking) Recipient() string    { return t.recipient }
func (t *Tracking) Subject() string      { return t.subject }
func (t *Tracking) CreatedAt() time.Time { return t.createdAt }

// Event is one open or click hit. Unknown tracking IDs are recorded anyway;
// the endpoints never reveal whether an ID exists.
type Event struct {
	id         uint
	trackingID string
	kind       string
	url        string
	ip         string
	userAgent  string
	referer    string
	createdAt  time.Time
}

func NewEvent(trackingID, kind string, now time.Time) (*Event, error) {
	if trackingID == "" {
		return nil, fmt.Errorf("tracking id is required")
	}
	if kind != KindOpen && kind != KindClick {
		return nil, fmt.Errorf("unknown tracking event kind: %s", kind)
	}

	return &Event{trackingID: trackingID, kind: kind, createdAt: now}, nil
}

func ReconstructEvent(id uint, trackingID, kind, url, ip, userAgent, referer string, createdAt time.Time) *Event {
	return &Event{
		id:         id,
		trackingID: trackingID,
		kind:       kind,
		url:        url,
		ip:         ip,
		userAgent:  userAgent,
		referer:    referer,
		createdAt:  createdAt,
	}
}

func (e *Event) ID() uint             { return e.id }
func (e *Event) TrackingID() string   { return e.trackingID }
func (e *Event) Kind() string         { return e.kind }
func (e *Event) URL() string          { return e.url }
func (e *Event) IP() string           { return e.ip }
func (e *Event) UserAgent() string    { return e.userAgent }
func (e *Event) Referer() string      { return e.referer }
func (e *Event) CreatedAt() time.Time { return e.createdAt }

func (e *Event) SetID(id uint) { e.id = id }

func (e *Event) WithURL(url string) *Event {
	e.url = url
	return e
}

func (e *Event) WithRequest(ip, userAgent, referer string) *Event {
	e.ip = ip
	e.userAgent = userAgent
	e.referer = referer
	return e
}
