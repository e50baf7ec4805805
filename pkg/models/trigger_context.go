package models

// EntityType identifies which business entity a trigger context snapshots.
type EntityType string

const (
	EntityBooking   EntityType = "booking"
	EntityTask      EntityType = "task"
	EntityIssue     EntityType = "issue"
	EntityExpense   EntityType = "expense"
	EntityStatement EntityType = "statement"
)

// TriggerContext is the snapshot a business operation passes when it fires a
// trigger. It is created fresh per invocation and read-only to the engine.
// EntityData carries an arbitrary nested snapshot of the triggering entity;
// the engine never assumes its shape and only resolves dot-paths into it.
type TriggerContext struct {
	EntityType EntityType     `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	EntityData map[string]any `json:"entity_data,omitempty"`
	PropertyID string         `json:"property_id,omitempty"`
	OwnerID    string         `json:"owner_id,omitempty"`
}
