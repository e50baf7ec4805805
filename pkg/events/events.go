// Package events defines the event types exchanged between the platform's
// business services, the rule engine worker, and the notification subsystem.
package events

import (
	"time"

	"github.com/stayops/stayops/pkg/models"
)

type EventType string

// Kafka topics.
const Topic = "stayops.events"                          // Trigger + engine lifecycle events
const NotificationTopic = "stayops.notifications"       // Delivery requests for the notification subsystem

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// TriggerFiredEvent carries a domain trigger into the engine worker.
	// Producers fire and forget: ordering is not guaranteed and producers
	// never observe evaluation failures.
	TriggerFiredEvent EventType = "trigger.fired"

	// ExecutionRecordedEvent is emitted after the engine records one rule's
	// run, for dashboards and alerting.
	ExecutionRecordedEvent EventType = "execution.recorded"

	// NotificationRequestedEvent asks the delivery subsystem to send one
	// notification over the requested channels.
	NotificationRequestedEvent EventType = "notification.requested"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type TriggerFired struct {
	BaseEvent

	Trigger models.TriggerType    `json:"trigger"`
	Context models.TriggerContext `json:"context"`
}

func (t TriggerFired) GetType() EventType {
	return TriggerFiredEvent
}

type ExecutionRecorded struct {
	BaseEvent

	ExecutionID  string                 `json:"execution_id"`
	RuleID       string                 `json:"rule_id"`
	RuleName     string                 `json:"rule_name"`
	Trigger      models.TriggerType     `json:"trigger"`
	Status       models.ExecutionStatus `json:"status"`
	ErrorMessage string                 `json:"error_message,omitempty"`
}

func (e ExecutionRecorded) GetType() EventType {
	return ExecutionRecordedEvent
}

type NotificationRequested struct {
	BaseEvent

	Notification models.Notification `json:"notification"`
}

func (n NotificationRequested) GetType() EventType {
	return NotificationRequestedEvent
}
