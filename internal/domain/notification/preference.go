package notification

import "fmt"

// Preference stores one user's channel switches for one event type. A
// missing row means the catalog default applies.
type Preference struct {
	userID    uint
	eventType string
	channels  map[string]bool
}

func NewPreference(userID uint, eventType string, channels map[string]bool) (*Preference, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if eventType == "" {
		return nil, fmt.Errorf("event type is required")
	}
	if channels == nil {
		channels = map[string]bool{}
	}
	return &Preference{userID: userID, eventType: eventType, channels: channels}, nil
}

func ReconstructPreference(userID uint, eventType string, channels map[string]bool) *Preference {
	if channels == nil {
		channels = map[string]bool{}
	}
	return &Preference{userID: userID, eventType: eventType, channels: channels}
}

func (p *Preference) UserID() uint      { return p.userID }
func (p *Preference) EventType() string { return p.eventType }

func (p *Preference) Channels() map[string]bool {
	out := make(map[string]bool, len(p.channels))
	for k, v := range p.channels {
		out[k] = v
	}
	return out
}

// Enabled returns the user's switch for a channel and whether one is stored.
func (p *Preference) Enabled(channel string) (bool, bool) {
	v, ok := p.channels[channel]
	return v, ok
}

func (p *Preference) SetChannel(channel string, enabled bool) {
	p.channels[channel] = enabled
}
