package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkflowRule_InScope(t *testing.T) {
	tests := []struct {
		name       string
		rule       WorkflowRule
		propertyID string
		ownerID    string
		expected   bool
	}{
		{
			name:       "no allowlists matches everything",
			rule:       WorkflowRule{},
			propertyID: "prop-1",
			ownerID:    "owner-1",
			expected:   true,
		},
		{
			name:     "no allowlists matches empty identity too",
			rule:     WorkflowRule{},
			expected: true,
		},
		{
			name:       "property allowlist matches",
			rule:       WorkflowRule{PropertyIDs: []string{"prop-1", "prop-2"}},
			propertyID: "prop-2",
			expected:   true,
		},
		{
			name:       "property allowlist rejects",
			rule:       WorkflowRule{PropertyIDs: []string{"prop-1"}},
			propertyID: "prop-9",
			expected:   false,
		},
		{
			name:     "property allowlist rejects missing property",
			rule:     WorkflowRule{PropertyIDs: []string{"prop-1"}},
			ownerID:  "owner-1",
			expected: false,
		},
		{
			name:     "owner allowlist matches",
			rule:     WorkflowRule{OwnerIDs: []string{"owner-1"}},
			ownerID:  "owner-1",
			expected: true,
		},
		{
			name:       "owner allowlist rejects missing owner",
			rule:       WorkflowRule{OwnerIDs: []string{"owner-1"}},
			propertyID: "prop-1",
			expected:   false,
		},
		{
			name:       "both allowlists must hold",
			rule:       WorkflowRule{PropertyIDs: []string{"prop-1"}, OwnerIDs: []string{"owner-1"}},
			propertyID: "prop-1",
			ownerID:    "owner-2",
			expected:   false,
		},
		{
			name:       "both allowlists hold together",
			rule:       WorkflowRule{PropertyIDs: []string{"prop-1"}, OwnerIDs: []string{"owner-1"}},
			propertyID: "prop-1",
			ownerID:    "owner-1",
			expected:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.rule.InScope(tt.propertyID, tt.ownerID))
		})
	}
}

func TestIsValidTrigger(t *testing.T) {
	for _, trigger := range TriggerTypes {
		assert.True(t, IsValidTrigger(trigger), string(trigger))
	}

	assert.False(t, IsValidTrigger("BOOKING_EXPLODED"))
	assert.False(t, IsValidTrigger(""))
}
