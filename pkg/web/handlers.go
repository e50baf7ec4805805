package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/stayops/stayops/pkg/eventbus"
	"github.com/stayops/stayops/pkg/events"
	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
	"github.com/stayops/stayops/pkg/services"
)

type APIHandlers struct {
	rulesService      *services.Rules
	executionsService *services.Executions
	validator         *validator.Validate
	eventBus          eventbus.EventBus
}

func NewAPIHandlers(
	rulesService *services.Rules,
	executionsService *services.Executions,
	validator *validator.Validate,
	eventBus eventbus.EventBus,
) *APIHandlers {
	return &APIHandlers{
		rulesService:      rulesService,
		executionsService: executionsService,
		validator:         validator,
		eventBus:          eventBus,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.rulesService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "StayOps API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "StayOps API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetRules(c fiber.Ctx) error {
	rules, err := h.rulesService.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"rules": rules,
		"count": len(rules),
	})
}

func (h *APIHandlers) GetRule(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Rule ID is required")
	}

	rule, err := h.rulesService.ByID(c.Context(), id)
	if err != nil {
		if persistence.IsRuleNotFound(err) {
			return notFound(c, "Rule not found")
		}

		return internalError(c, err)
	}

	return c.JSON(rule)
}

func (h *APIHandlers) CreateRule(c fiber.Ctx) error {
	var req CreateRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	rule := &models.WorkflowRule{
		Name:        req.Name,
		Description: req.Description,
		Trigger:     req.Trigger,
		Conditions:  req.Conditions,
		Actions:     req.Actions,
		PropertyIDs: req.PropertyIDs,
		OwnerIDs:    req.OwnerIDs,
		Priority:    req.Priority,
	}

	created, err := h.rulesService.Create(c.Context(), rule)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateRule(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Rule ID is required")
	}

	var req UpdateRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := h.rulesService.ByID(c.Context(), id)
	if err != nil {
		if persistence.IsRuleNotFound(err) {
			return notFound(c, "Rule not found")
		}

		return internalError(c, err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}

	if req.Description != nil {
		existing.Description = *req.Description
	}

	if req.Trigger != nil {
		existing.Trigger = *req.Trigger
	}

	if req.Conditions != nil {
		existing.Conditions = req.Conditions
	}

	if req.Actions != nil {
		existing.Actions = req.Actions
	}

	if req.PropertyIDs != nil {
		existing.PropertyIDs = req.PropertyIDs
	}

	if req.OwnerIDs != nil {
		existing.OwnerIDs = req.OwnerIDs
	}

	if req.Priority != nil {
		existing.Priority = *req.Priority
	}

	updated, err := h.rulesService.Update(c.Context(), id, existing)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteRule(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Rule ID is required")
	}

	err := h.rulesService.Delete(c.Context(), id)
	if err != nil {
		if persistence.IsRuleNotFound(err) {
			return notFound(c, "Rule not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ActivateRule(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Rule ID is required")
	}

	rule, err := h.rulesService.Activate(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(rule)
}

func (h *APIHandlers) DeactivateRule(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Rule ID is required")
	}

	rule, err := h.rulesService.Deactivate(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(rule)
}

func (h *APIHandlers) GetRuleExecutions(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Rule ID is required")
	}

	limit := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			return badRequest(c, "Invalid limit parameter")
		}

		limit = parsed
	}

	executions, err := h.executionsService.ByRule(c.Context(), id, limit)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"executions": executions,
		"count":      len(executions),
	})
}

// FireTrigger publishes a trigger event and returns immediately. Callers
// never observe evaluation results; the engine worker picks the event up
// asynchronously.
func (h *APIHandlers) FireTrigger(c fiber.Ctx) error {
	trigger := models.TriggerType(c.Params("trigger"))
	if !models.IsValidTrigger(trigger) {
		return badRequest(c, "Unknown trigger type: "+string(trigger))
	}

	var req FireTriggerRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	event := events.TriggerFired{
		BaseEvent: events.BaseEvent{
			ID:        h.eventBus.GenerateID(),
			Type:      events.TriggerFiredEvent,
			Timestamp: time.Now().UTC(),
		},
		Trigger: trigger,
		Context: models.TriggerContext{
			EntityType: req.EntityType,
			EntityID:   req.EntityID,
			EntityData: req.EntityData,
			PropertyID: req.PropertyID,
			OwnerID:    req.OwnerID,
		},
	}

	err := h.eventBus.Publish(c.Context(), req.EntityID, event)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status":  "accepted",
		"trigger": trigger,
	})
}
