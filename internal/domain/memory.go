package domain

import "time"

// Well-known Working Context keys.
const (
	ContextTaskID      = "task_id"
	ContextTaskDesc    = "task_desc"
	ContextCreatedAt   = "created_at"
	ContextStatus      = "status"
	ContextSubtasks    = "subtasks"
	ContextClaw        = "claw"
	ContextSkills      = "required_skills"
	ContextCompleted   = "completed"
	ContextSuccess     = "success"
	ContextFeedback    = "feedback"
	ContextFinalResult = "final_result"
	ContextPriority    = "priority"
	ContextUserID      = "user_id"
)

// Message is one entry of the inter-agent message log.
type Message struct {
	Timestamp time.Time      `json:"timestamp"`
	Sender    string         `json:"sender"`
	Receiver  string         `json:"receiver"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// WorkingContext is the scratch state of one in-flight task.
type WorkingContext struct {
	TaskID      string         `json:"task_id"`
	Description string         `json:"description"`
	Values      map[string]any `json:"context"`
	Messages    []Message      `json:"messages"`
	CreatedAt   time.Time      `json:"created_at"`
}

// EpisodicRecord is the archived form of a delivered task.
type EpisodicRecord struct {
	TaskID      string         `json:"task_id"`
	Context     map[string]any `json:"context"`
	Messages    []Message      `json:"messages"`
	CompletedAt time.Time      `json:"completed_at"`
}

// Description returns the archived task description, or "".
func (r *EpisodicRecord) Description() string {
	s, _ := r.Context[ContextTaskDesc].(string)
	return s
}

// Succeeded reports whether the archived context marks success=true.
func (r *EpisodicRecord) Succeeded() bool {
	ok, _ := r.Context[ContextSuccess].(bool)
	return ok
}
