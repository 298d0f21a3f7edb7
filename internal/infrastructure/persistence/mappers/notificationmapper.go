package mappers

import (
	"encoding/json"
	"fmt"

	"github.com/praxisops/praxis/internal/domain/notification"
	"github.com/praxisops/praxis/internal/infrastructure/persistence/models"
)

// NotificationMapper converts between notification entities and persistence models.
type NotificationMapper interface {
	ToModel(n *notification.Notification) *models.NotificationModel
	ToDomain(model *models.NotificationModel) (*notification.Notification, error)

	SettingToModel(s *notification.EventSetting) *models.NotificationEventSettingModel
	SettingToDomain(model *models.NotificationEventSettingModel) (*notification.EventSetting, error)

	PreferenceToModel(p *notification.Preference) *models.NotificationPreferenceModel
	PreferenceToDomain(model *models.NotificationPreferenceModel) (*notification.Preference, error)
}

type notificationMapper struct{}

func NewNotificationMapper() NotificationMapper {
	return &notificationMapper{}
}

func (m *notificationMapper) ToModel(n *notification.Notification) *models.NotificationModel {
	return &models.NotificationModel{
		ID:        n.ID(),
		UserID:    n.UserID(),
		EventType: n.EventType(),
		Message:   n.Message(),
		Metadata:  marshalMap(n.Metadata()),
		CreatedAt: timeToMillis(n.CreatedAt()),
		ReadAt:    timePtrToMillis(n.ReadAt()),
	}
}

func (m *notificationMapper) ToDomain(model *models.NotificationModel) (*notification.Notification, error) {
	metadata, err := unmarshalMap(model.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata (notification=%d): %w", model.ID, err)
	}

	return notification.ReconstructNotification(
		model.ID,
		model.UserID,
		model.EventType,
		model.Message,
		metadata,
		millisToTime(model.CreatedAt),
		millisPtrToTime(model.ReadAt),
	), nil
}

func (m *notificationMapper) SettingToModel(s *notification.EventSetting) *models.NotificationEventSettingModel {
	channelsJSON, _ := json.Marshal(s.Channels())
	actionsJSON, _ := json.Marshal(s.ModuleActions())

	return &models.NotificationEventSettingModel{
		ID:            s.ID(),
		EventType:     s.EventType(),
		DisplayName:   s.DisplayName(),
		Description:   s.Description(),
		Template:      s.Template(),
		UserVisible:   s.UserVisible(),
		Channels:      string(channelsJSON),
		ModuleActions: string(actionsJSON),
	}
}

func (m *notificationMapper) SettingToDomain(model *models.NotificationEventSettingModel) (*notification.EventSetting, error) {
	var channels map[string]notification.ChannelPolicy
	if model.Channels != "" {
		if err := json.Unmarshal([]byte(model.Channels), &channels); err != nil {
			return nil, fmt.Errorf("failed to unmarshal channels (setting=%d): %w", model.ID, err)
		}
	}

	var actions []notification.ModuleAction
	if model.ModuleActions != "" {
		if err := json.Unmarshal([]byte(model.ModuleActions), &actions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal module actions (setting=%d): %w", model.ID, err)
		}
	}

	return notification.ReconstructEventSetting(
		model.ID,
		model.EventType,
		model.DisplayName,
		model.Description,
		model.Template,
		model.UserVisible,
		channels,
		actions,
	), nil
}

func (m *notificationMapper) PreferenceToModel(p *notification.Preference) *models.NotificationPreferenceModel {
	channelsJSON, _ := json.Marshal(p.Channels())
	return &models.NotificationPreferenceModel{
		UserID:    p.UserID(),
		EventType: p.EventType(),
		Channels:  string(channelsJSON),
	}
}

func (m *notificationMapper) PreferenceToDomain(model *models.NotificationPreferenceModel) (*notification.Preference, error) {
	var channels map[string]bool
	if model.Channels != "" {
		if err := json.Unmarshal([]byte(model.Channels), &channels); err != nil {
			return nil, fmt.Errorf("failed to unmarshal channels (preference=%d): %w", model.ID, err)
		}
	}
	return notification.ReconstructPreference(model.UserID, model.EventType, channels), nil
}
