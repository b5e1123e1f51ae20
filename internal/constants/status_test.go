package constants

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStatus_String(t *testing.T) {
	tests := []struct {
		name     string
		status   TaskStatus
		expected string
	}{
		{"received status", TaskStatusReceived, "received"},
		{"parsed status", TaskStatusParsed, "parsed"},
		{"ready status", TaskStatusReady, "ready"},
		{"executing status", TaskStatusExecuting, "executing"},
		{"completed status", TaskStatusCompleted, "completed"},
		{"delivered status", TaskStatusDelivered, "delivered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())
		})
	}
}

func TestTaskStatus_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Status TaskStatus `json:"status"`
	}{TaskStatusExecuting})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"executing"}`, string(data))
}

func TestPriority_IsValid(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent} {
		assert.True(t, p.IsValid(), p.String())
	}
	assert.False(t, Priority("critical").IsValid())
	assert.False(t, Priority("").IsValid())
}

func TestSubtaskAndTeamStatus_String(t *testing.T) {
	assert.Equal(t, "failed", SubtaskStatusFailed.String())
	assert.Equal(t, "formed", TeamStatusFormed.String())
	assert.Equal(t, "request_human_help", StrategyRequestHumanHelp.String())
	assert.Equal(t, "skill_mismatch", FailureSkillMismatch.String())
}
