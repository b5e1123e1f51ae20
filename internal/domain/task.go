// Package domain provides shared domain types for the Olympus orchestration core.
// These types are used across all internal packages to ensure consistent data structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
//
// All JSON field names use snake_case.
package domain

import (
	"time"

	"github.com/mrz1836/olympus/internal/constants"
)

// Task is one user request tracked through the hub lifecycle.
//
// Example JSON representation:
//
//	{
//	    "id": "6f1c9a8e-2d1b-4f7a-9e55-0c6d3b1f2a11",
//	    "description": "为一个小型创业团队生成一周的社交媒体内容计划",
//	    "user_id": "default",
//	    "priority": "normal",
//	    "status": "executing",
//	    "subtasks": [...],
//	    "claw_id": "claw_6f1c9a8e",
//	    "created_at": "2025-03-01T09:00:00Z"
//	}
type Task struct {
	// ID is a uuid v4 generated at receipt.
	ID string `json:"id"`

	// Description is the free-text request.
	Description string `json:"description"`

	// UserID identifies the submitter.
	UserID string `json:"user_id"`

	// Priority is one of low, normal, high, urgent.
	Priority constants.Priority `json:"priority"`

	// Status is the current lifecycle state.
	Status constants.TaskStatus `json:"status"`

	// Subtasks is the ordered decomposition of the request.
	Subtasks []*Subtask `json:"subtasks"`

	// ClawID references the team formed for this task, empty until formClaw.
	ClawID string `json:"claw_id,omitempty"`

	// PatternID is set when decomposition came from a stored pattern.
	PatternID string `json:"pattern_id,omitempty"`

	// Results accumulates execution results keyed by subtask id.
	Results map[string]*ExecutionResult `json:"results,omitempty"`

	// FinalResult is the delivered output.
	FinalResult string `json:"final_result,omitempty"`

	// Feedback is the optional delivery feedback.
	Feedback string `json:"feedback,omitempty"`

	// Success is the delivery outcome; only meaningful once delivered.
	Success bool `json:"success"`

	// Transitions records every status change in order.
	Transitions []Transition `json:"transitions,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// Transition records a single lifecycle state change.
type Transition struct {
	FromStatus constants.TaskStatus `json:"from_status"`
	ToStatus   constants.TaskStatus `json:"to_status"`
	Timestamp  time.Time            `json:"timestamp"`
	Reason     string               `json:"reason,omitempty"`
}

// Subtask is one independently executable unit of a Task.
type Subtask struct {
	// ID is a short identifier unique within the owning task.
	ID string `json:"id"`

	// Description says what the agent should do.
	Description string `json:"description"`

	// RequiredSkills are the skill tags used for team matching.
	RequiredSkills []string `json:"required_skills"`

	// AgentType is a hint naming the agent best suited to the work.
	AgentType string `json:"agent_type"`

	// EstimatedMinutes is the expected duration.
	EstimatedMinutes int `json:"estimated_time"`

	// Status is pending, completed or failed.
	Status constants.SubtaskStatus `json:"status"`

	// Result is set when the subtask completed.
	Result *ExecutionResult `json:"result,omitempty"`

	// Error holds the failure text when the subtask failed.
	Error string `json:"error,omitempty"`

	// Recovery is the plan produced for a failed subtask.
	Recovery *RecoveryPlan `json:"recovery,omitempty"`

	// LLMGenerated marks drafts that came from a language model.
	LLMGenerated bool `json:"llm_generated,omitempty"`
}

// SkillSet returns the union of required skills across subtasks in order
// of first appearance.
func SkillSet(subtasks []*Subtask) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, st := range subtasks {
		if st == nil {
			continue
		}
		for _, s := range st.RequiredSkills {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// ExecutionResult is what the execution collaborator returns for a subtask.
type ExecutionResult struct {
	Success bool `json:"success"`

	// Output is the free-form result text.
	Output string `json:"output"`

	// ExecutionTime is in minutes.
	ExecutionTime float64 `json:"execution_time"`

	Artifacts  []string `json:"artifacts,omitempty"`
	Logs       []string `json:"logs,omitempty"`
	Confidence float64  `json:"confidence"`

	// Agent is the agent type that produced the result.
	Agent string `json:"agent,omitempty"`
}

// TaskRequest is the inbound shape for receiveTask.
type TaskRequest struct {
	Description string             `json:"description"`
	UserID      string             `json:"user_id,omitempty"`
	Priority    constants.Priority `json:"priority,omitempty"`
}

// Delivery is the inbound shape for deliverTask.
type Delivery struct {
	Result   string `json:"result"`
	Feedback string `json:"feedback,omitempty"`
}
