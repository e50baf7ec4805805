package models

import "time"

// Business entities the engine's actions touch. The platform's full CRUD
// surface for these lives in its own services; the engine only needs the
// shapes below and the generic status-update capability per entity type.

// TaskType categorizes operational tasks.
type TaskType string

const (
	TaskTypeCleaning    TaskType = "cleaning"
	TaskTypeMaintenance TaskType = "maintenance"
	TaskTypeInspection  TaskType = "inspection"
	TaskTypeCheckIn     TaskType = "check_in"
	TaskTypeCheckOut    TaskType = "check_out"
	TaskTypeOther       TaskType = "other"
)

// Task is an operational task attached to a property.
type Task struct {
	ID            string     `json:"id"`
	PropertyID    string     `json:"property_id" validate:"required"`
	Title         string     `json:"title"       validate:"required"`
	Description   string     `json:"description"`
	Type          TaskType   `json:"type"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	AssignedTo    string     `json:"assigned_to,omitempty"`
	DueDate       time.Time  `json:"due_date"`
	EstimatedCost float64    `json:"estimated_cost,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// Booking is a guest reservation at a property.
type Booking struct {
	ID          string    `json:"id"`
	PropertyID  string    `json:"property_id"`
	OwnerID     string    `json:"owner_id"`
	GuestName   string    `json:"guest_name"`
	Status      string    `json:"status"`
	CheckIn     time.Time `json:"check_in"`
	CheckOut    time.Time `json:"check_out"`
	TotalPayout float64   `json:"total_payout"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IssuePriority orders issues for operational attention.
type IssuePriority string

const (
	IssuePriorityLow      IssuePriority = "low"
	IssuePriorityMedium   IssuePriority = "medium"
	IssuePriorityHigh     IssuePriority = "high"
	IssuePriorityCritical IssuePriority = "critical"
)

// Issue is a reported problem at a property.
type Issue struct {
	ID         string        `json:"id"`
	PropertyID string        `json:"property_id"`
	Title      string        `json:"title"`
	Status     string        `json:"status"`
	Priority   IssuePriority `json:"priority"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
