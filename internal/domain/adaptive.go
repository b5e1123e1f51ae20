package domain

import (
	"time"

	"github.com/mrz1836/olympus/internal/constants"
)

// FailureRecord is one classified subtask failure.
type FailureRecord struct {
	TaskID    string                `json:"task_id"`
	SubtaskID string                `json:"subtask_id,omitempty"`
	AgentID   string                `json:"agent_id,omitempty"`
	Type      constants.FailureType `json:"failure_type"`
	Error     string                `json:"error"`

	// Context is a snapshot of the working context at failure time.
	Context map[string]any `json:"context"`

	// RequiredSkills are copied from the failed subtask.
	RequiredSkills []string  `json:"required_skills,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// RecoveryPlan is the remediation proposed for a failure.
type RecoveryPlan struct {
	Strategy    constants.RecoveryStrategy `json:"strategy"`
	FailureType constants.FailureType      `json:"failure_type"`
	Steps       []string                   `json:"steps"`

	// EstimatedMinutes is the expected recovery duration.
	EstimatedMinutes   int     `json:"estimated_recovery_time"`
	SuccessProbability float64 `json:"success_probability"`

	AlternativeAgent string    `json:"alternative_agent,omitempty"`
	NewSubtasks      []Subtask `json:"new_subtasks,omitempty"`
	HelpRequest      string    `json:"help_request,omitempty"`
}

// AdaptiveStats summarizes the failure log.
type AdaptiveStats struct {
	TotalFailures       int                           `json:"total_failures"`
	MostCommonFailure   constants.FailureType         `json:"most_common_failure,omitempty"`
	FailureDistribution map[constants.FailureType]int `json:"failure_type_distribution"`
	RecoveryAttempts    int                           `json:"recovery_attempts"`
	RecoverySuccessRate float64                       `json:"recovery_success_rate"`
}
