package notification

import (
	"fmt"
)

// Channel names.
const (
	ChannelInApp = "in_app"
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// ModuleAction is a side-effect dispatched alongside a notification through
// the shared module handler registry.
type ModuleAction struct {
	Module  string         `json:"module"`
	Payload map[string]any `json:"payload,omitempty"`
}

// ChannelPolicy pairs the catalog's allow flag with its default enablement.
type ChannelPolicy struct {
	Allowed        bool `json:"allowed"`
	DefaultEnabled bool `json:"default_enabled"`
}

// EventSetting is one catalog row: it decides whether an event type notifies
// at all, how the message renders, and which channels may carry it.
type EventSetting struct {
	id            uint
	eventType     string
	displayName   string
	description   string
	template      string
	userVisible   bool
	channels      map[string]ChannelPolicy
	moduleActions []ModuleAction
}

func NewEventSetting(eventType, displayName, description, template string, userVisible bool, channels map[string]ChannelPolicy, moduleActions []ModuleAction) (*EventSetting, error) {
	if eventType == "" {
		return nil, fmt.Errorf("event type is required")
	}
	if displayName == "" {
		return nil, fmt.Errorf("display name is required")
	}
	if channels == nil {
		channels = map[string]ChannelPolicy{}
	}

	return &EventSetting{
		eventType:     eventType,
		displayName:   displayName,
		description:   description,
		template:      template,
		userVisible:   userVisible,
		channels:      channels,
		moduleActions: moduleActions,
	}, nil
}

func ReconstructEventSetting(id uint, eventType, displayName, description, template string, userVisible bool, channels map[string]ChannelPolicy, moduleActions []ModuleAction) *EventSetting {
	if channels == nil {
		channels = map[string]ChannelPolicy{}
	}
	return &EventSetting{
		id:            id,
		eventType:     eventType,
		displayName:   displayName,
		description:   description,
		template:      template,
		userVisible:   userVisible,
		channels:      channels,
		moduleActions: moduleActions,
	}
}

func (s *EventSetting) ID() uint            { return s.id }
func (s *EventSetting) EventType() string   { return s.eventType }
func (s *EventSetting) DisplayName() string { return s.displayName }
func (s *EventSetting) Description() string { return s.description }
func (s *EventSetting) Template() string    { return s.template }
func (s *EventSetting) UserVisible() bool   { return s.userVisible }

func (s *EventSetting) SetID(id uint) { s.id = id }

func (s *EventSetting) Channels() map[string]ChannelPolicy {
	out := make(map[string]ChannelPolicy, len(s.channels))
	for k, v := range s.channels {
		out[k] = v
	}
	return out
}

func (s *EventSetting) ModuleActions() []ModuleAction {
	out := make([]ModuleAction, len(s.moduleActions))
	copy(out, s.moduleActions)
	return out
}

// ChannelAllowed reports whether the catalog permits delivery on a channel.
func (s *EventSetting) ChannelAllowed(channel string) bool {
	return s.channels[channel].Allowed
}

// DefaultEnabled reports the catalog default applied when a user has no
// stored preference for this event/channel.
func (s *EventSetting) DefaultEnabled(channel string) bool {
	policy := s.channels[channel]
	return policy.Allowed && policy.DefaultEnabled
}
