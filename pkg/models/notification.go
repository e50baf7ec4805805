package models

// NotificationChannel is one delivery channel of the multi-channel
// notification subsystem.
type NotificationChannel string

const (
	ChannelEmail    NotificationChannel = "EMAIL"
	ChannelSMS      NotificationChannel = "SMS"
	ChannelWhatsApp NotificationChannel = "WHATSAPP"
)

// Notification is a delivery request handed to the notification subsystem.
// Delivery itself (providers, retries, templating) is outside this module.
type Notification struct {
	OwnerID    string                `json:"owner_id"    validate:"required"`
	Type       string                `json:"type"`
	Channels   []NotificationChannel `json:"channels"    validate:"required,min=1"`
	Title      string                `json:"title"       validate:"required"`
	Message    string                `json:"message"     validate:"required"`
	ActionURL  string                `json:"action_url,omitempty"`
	ActionText string                `json:"action_text,omitempty"`
	Metadata   map[string]any        `json:"metadata,omitempty"`
}
