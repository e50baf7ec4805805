// Package web provides HTTP handlers and REST API endpoints for rule
// management and manual trigger dispatch.
package web

import "github.com/stayops/stayops/pkg/models"

// CreateRuleRequest represents the request body for creating a new rule.
type CreateRuleRequest struct {
	Name        string                `json:"name"         validate:"required,min=3"`
	Description string                `json:"description"`
	Trigger     models.TriggerType    `json:"trigger"      validate:"required"`
	Conditions  []models.Condition    `json:"conditions"`
	Actions     []models.ActionConfig `json:"actions"      validate:"required,min=1,dive"`
	PropertyIDs []string              `json:"property_ids,omitempty"`
	OwnerIDs    []string              `json:"owner_ids,omitempty"`
	Priority    int                   `json:"priority"`
}

// UpdateRuleRequest represents the request body for updating an existing
// rule. All fields are optional to support partial updates; activation state
// is changed through the activate/deactivate endpoints.
type UpdateRuleRequest struct {
	Name        *string               `json:"name,omitempty"        validate:"omitempty,min=3"`
	Description *string               `json:"description,omitempty"`
	Trigger     *models.TriggerType   `json:"trigger,omitempty"`
	Conditions  []models.Condition    `json:"conditions,omitempty"`
	Actions     []models.ActionConfig `json:"actions,omitempty"     validate:"omitempty,min=1,dive"`
	PropertyIDs []string              `json:"property_ids,omitempty"`
	OwnerIDs    []string              `json:"owner_ids,omitempty"`
	Priority    *int                  `json:"priority,omitempty"`
}

// FireTriggerRequest represents the request body for firing a trigger
// manually. The trigger type comes from the URL.
type FireTriggerRequest struct {
	EntityType models.EntityType `json:"entity_type" validate:"required"`
	EntityID   string            `json:"entity_id"   validate:"required"`
	EntityData map[string]any    `json:"entity_data"`
	PropertyID string            `json:"property_id"`
	OwnerID    string            `json:"owner_id"`
}
