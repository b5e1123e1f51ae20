package domain

import (
	"time"

	"github.com/mrz1836/olympus/internal/constants"
)

// TaskResult is what the hub hands to individual evolution for one member.
type TaskResult struct {
	TaskID        string   `json:"task_id"`
	Success       bool     `json:"success"`
	ExecutionTime float64  `json:"execution_time"`
	NewSkills     []string `json:"new_skills,omitempty"`
	Collaborators []string `json:"collaborators,omitempty"`
}

// EvolutionEntry is one line of the evolution log.
type EvolutionEntry struct {
	Timestamp time.Time                `json:"timestamp"`
	Event     constants.EvolutionEvent `json:"event"`
	AgentID   string                   `json:"agent_id,omitempty"`
	Details   map[string]any           `json:"details,omitempty"`
}

// Event is one line of a task's decision/event log.
type Event struct {
	Timestamp time.Time           `json:"timestamp"`
	TaskID    string              `json:"task_id"`
	Type      constants.EventType `json:"event"`
	Data      map[string]any      `json:"data,omitempty"`
}

// HubStatus is the read-only projection returned by getStatus.
type HubStatus struct {
	ActiveTasks    int                               `json:"active_tasks"`
	ActiveClaws    int                               `json:"active_claws"`
	TasksByStatus  map[constants.TaskStatus][]string `json:"tasks_by_status"`
	ClawsByStatus  map[constants.TeamStatus][]string `json:"claws_by_status"`
	DeliveredTotal int                               `json:"delivered_total"`
}

// TaskView is the read-only projection returned by getTaskStatus.
type TaskView struct {
	Task *Task `json:"task"`
	Team *Team `json:"team,omitempty"`
}
