package domain

import "time"

// Pattern is a reusable decomposition mined from successful tasks.
type Pattern struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// Category is the keyword bucket the pattern was mined from.
	Category string `json:"category"`

	// Subtasks is the template copied into tasks that hit this pattern.
	Subtasks []Subtask `json:"subtasks"`

	RecommendedClaw RecommendedClaw `json:"recommended_claw"`
	BestPractices   []string        `json:"best_practices"`

	// EstimatedTotalTime is in minutes.
	EstimatedTotalTime int     `json:"estimated_total_time"`
	SuccessRate        float64 `json:"success_rate"`
	SampleSize         int     `json:"sample_size"`

	CreatedAt time.Time `json:"created_at"`
}

// RecommendedClaw is the team composition a pattern suggests.
type RecommendedClaw struct {
	Members   []string `json:"members"`
	Rationale string   `json:"rationale"`
}

// Rule is a named set of collaboration directives.
type Rule struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Directives  []string  `json:"rules" yaml:"rules"`
	CreatedAt   time.Time `json:"created_at" yaml:"-"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"-"`
}
