package models

// ActionType identifies the kind of side effect a rule action performs.
type ActionType string

const (
	ActionCreateTask       ActionType = "CREATE_TASK"
	ActionAssignTask       ActionType = "ASSIGN_TASK"
	ActionSendNotification ActionType = "SEND_NOTIFICATION"
	ActionSendEmail        ActionType = "SEND_EMAIL"
	ActionSendSMS          ActionType = "SEND_SMS"
	ActionSendWhatsApp     ActionType = "SEND_WHATSAPP"
	ActionUpdateStatus     ActionType = "UPDATE_STATUS"
	ActionUpdatePriority   ActionType = "UPDATE_PRIORITY"
)

// ActionConfig is one side-effecting instruction embedded in a rule. Params
// is a semi-structured bag interpreted by the handler for the action type;
// its shape is validated against the handler's JSON schema when the rule is
// saved.
type ActionConfig struct {
	Type   ActionType     `json:"type"   validate:"required,oneof=CREATE_TASK ASSIGN_TASK SEND_NOTIFICATION SEND_EMAIL SEND_SMS SEND_WHATSAPP UPDATE_STATUS UPDATE_PRIORITY"`
	Params map[string]any `json:"params"`
}

// ActionResult is the settled outcome of one action within a rule run.
// Handlers return structured results instead of propagating errors so one
// failing action never aborts its siblings.
type ActionResult struct {
	Type    ActionType     `json:"type"`
	Params  map[string]any `json:"params,omitempty"`
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Output  map[string]any `json:"output,omitempty"`
}
