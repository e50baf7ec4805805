package models

import "time"

// ExecutionStatus classifies the outcome of one rule's action batch.
type ExecutionStatus string

const (
	ExecutionSuccess ExecutionStatus = "SUCCESS" // every action succeeded
	ExecutionFailed  ExecutionStatus = "FAILED"  // every action failed
	ExecutionPartial ExecutionStatus = "PARTIAL" // some of each
)

// WorkflowExecution is the audit record of one rule's run for one
// invocation. Rows are write-once: the engine creates them and nothing ever
// mutates them.
type WorkflowExecution struct {
	ID              string          `json:"id"`
	WorkflowRuleID  string          `json:"workflow_rule_id"`
	TriggerType     TriggerType     `json:"trigger_type"`
	TriggerEntityID string          `json:"trigger_entity_id"`
	Status          ExecutionStatus `json:"status"`
	ErrorMessage    string          `json:"error_message,omitempty"`
	ExecutionLog    []ActionResult  `json:"execution_log"`
	CreatedAt       time.Time       `json:"created_at"`
}
