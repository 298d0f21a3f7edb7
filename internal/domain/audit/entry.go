// Package audit models the append-only action log.
package audit

import (
	"fmt"
	"time"
)

// Entry is one audit row. Previous/new values are opaque JSON blobs;
// consumers must not rely on field ordering inside them.
type Entry struct {
	id            uint
	userID        *uint
	action        string
	entityType    string
	entityID      string
	previousValue string
	newValue      string
	metadata      string
	apiKey        string
	ip            string
	createdAt     time.Time
}

func NewEntry(userID *uint, action string, now time.Time) (*Entry, error) {
	if action == "" {
		return nil, fmt.Errorf("action slug is required")
	}
	return &Entry{userID: userID, action: action, createdAt: now}, nil
}

func ReconstructEntry(id uint, userID *uint, action, entityType, entityID, previousValue, newValue, metadata, apiKey, ip string, createdAt time.Time) *Entry {
	return &Entry{
		id:            id,
		userID:        userID,
		action:        action,
		entityType:    entityType,
		entityID:      entityID,
		previousValue: previousValue,
		newValue:      newValue,
		metadata:      metadata,
		apiKey:        apiKey,
		ip:            ip,
		createdAt:     createdAt,
	}
}

func (e *Entry) ID() uint              { return e.id }
func (e *Entry) UserID() *uint         { return e.userID }
func (e *Entry) Action() string        { return e.action }
func (e *Entry) EntityType() string    { return e.entityType }
func (e *Entry) EntityID() string      { return e.entityID }
func (e *Entry) PreviousValue() string { return e.previousValue }
func (e *Entry) NewValue() string      { return e.newValue }
func (e *Entry) Metadata() string      { return e.metadata }
func (e *Entry) APIKey() string        { return e.apiKey }
func (e *Entry) IP() string            { return e.ip }
func (e *Entry) CreatedAt() time.Time  { return e.createdAt }

func (e *Entry) SetID(id uint) { e.id = id }

func (e *Entry) WithEntity(entityType, entityID string) *Entry {
	e.entityType = entityType
	e.entityID = entityID
	return e
}

func (e *Entry) WithValues(previous, next string) *Entry {
	e.previousValue = previous
	e.newValue = next
	return e
}

func (e *Entry) WithMetadata(metadata string) *Entry {
	e.metadata = metadata
	return e
}

func (e *Entry) WithRequest(apiKey, ip string) *Entry {
	e.apiKey = apiKey
	e.ip = ip
	return e
}
