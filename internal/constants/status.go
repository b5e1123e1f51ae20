package constants

// TaskStatus represents the state of a task in the hub lifecycle.
// Status values use snake_case for JSON serialization compatibility.
type TaskStatus string

// Task status constants define the lifecycle a task moves through.
// The lifecycle is strictly forward:
//
//	Received → Parsed → Ready → Executing → Completed → Delivered
//
// There is no whole-task failed state; failures are recorded per subtask.
const (
	// TaskStatusReceived indicates the hub accepted the request and opened working memory.
	TaskStatusReceived TaskStatus = "received"

	// TaskStatusParsed indicates the request was decomposed into subtasks.
	TaskStatusParsed TaskStatus = "parsed"

	// TaskStatusReady indicates a claw was formed and the task can execute.
	TaskStatusReady TaskStatus = "ready"

	// TaskStatusExecuting indicates subtasks are being run in order.
	TaskStatusExecuting TaskStatus = "executing"

	// TaskStatusCompleted indicates every subtask was attempted.
	// Some of them may have failed.
	TaskStatusCompleted TaskStatus = "completed"

	// TaskStatusDelivered indicates the result was handed back and memory was flushed.
	TaskStatusDelivered TaskStatus = "delivered"
)

// String returns the string representation of the TaskStatus.
// This implements fmt.Stringer for convenient logging and debugging.
func (s TaskStatus) String() string {
	return string(s)
}

// SubtaskStatus represents the execution state of a single subtask.
type SubtaskStatus string

// Subtask status constants.
const (
	// SubtaskStatusPending indicates the subtask has not been executed yet.
	SubtaskStatusPending SubtaskStatus = "pending"

	// SubtaskStatusCompleted indicates the execution collaborator returned a result.
	SubtaskStatusCompleted SubtaskStatus = "completed"

	// SubtaskStatusFailed indicates the execution collaborator signaled a failure.
	SubtaskStatusFailed SubtaskStatus = "failed"
)

// String returns the string representation of the SubtaskStatus.
func (s SubtaskStatus) String() string {
	return string(s)
}

// TeamStatus represents the state of a claw (team) bound to one task.
type TeamStatus string

// Team status constants.
const (
	// TeamStatusFormed indicates members were matched but work has not started.
	TeamStatusFormed TeamStatus = "formed"

	// TeamStatusExecuting indicates the owning task is executing.
	TeamStatusExecuting TeamStatus = "executing"

	// TeamStatusCompleted indicates the owning task finished execution.
	TeamStatusCompleted TeamStatus = "completed"
)

// String returns the string representation of the TeamStatus.
func (s TeamStatus) String() string {
	return string(s)
}

// Priority is the urgency a user attaches to a task request.
type Priority string

// Priority constants.
const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// String returns the string representation of the Priority.
func (p Priority) String() string {
	return string(p)
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// FailureType is the classification assigned to a subtask execution error.
type FailureType string

// Failure type constants, listed in classification priority order.
const (
	FailureAgentUnavailable FailureType = "agent_unavailable"
	FailureTaskTooComplex   FailureType = "task_too_complex"
	FailureSkillMismatch    FailureType = "skill_mismatch"
	FailureConflict         FailureType = "conflict"
	FailureUnknown          FailureType = "unknown"
)

// String returns the string representation of the FailureType.
func (f FailureType) String() string {
	return string(f)
}

// RecoveryStrategy names a remediation approach produced by the adaptive engine.
type RecoveryStrategy string

// Recovery strategy constants.
const (
	StrategyFindAlternativeAgent RecoveryStrategy = "find_alternative_agent"
	StrategyDecomposeFurther     RecoveryStrategy = "decompose_further"
	StrategyReassignAgent        RecoveryStrategy = "reassign_agent"
	StrategyHubMediation         RecoveryStrategy = "hub_mediation"
	StrategyRequestHumanHelp     RecoveryStrategy = "request_human_help"
)

// String returns the string representation of the RecoveryStrategy.
func (s RecoveryStrategy) String() string {
	return string(s)
}

// EventType identifies an entry in the per-task decision/event log.
type EventType string

// Event type constants.
const (
	EventTaskStart       EventType = "task_start"
	EventSubtaskStart    EventType = "subtask_start"
	EventSubtaskComplete EventType = "subtask_complete"
	EventDecision        EventType = "decision"
	EventException       EventType = "exception"
	EventTaskComplete    EventType = "task_complete"
)

// EvolutionEvent identifies an entry in the evolution log.
type EvolutionEvent string

// Evolution event constants.
const (
	EvolutionAgent            EvolutionEvent = "agent_evolution"
	EvolutionPatternDiscovery EvolutionEvent = "pattern_discovery"
	EvolutionRuleOptimization EvolutionEvent = "rule_optimization"
)
