package domain

import (
	"fmt"
	"slices"
	"time"

	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

// AgentProfile is the durable capability record of one agent.
// Skills and PreferredPartners only ever grow.
type AgentProfile struct {
	// ID is stable and never reused.
	ID string `json:"id" yaml:"id"`

	Name        string `json:"name" yaml:"name"`
	Role        string `json:"role" yaml:"role"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Skills is the ordered skill tag list used by the capability matcher.
	Skills []string `json:"skills" yaml:"skills"`

	Stats AgentStats `json:"stats" yaml:"-"`

	// History holds the most recent task outcomes, oldest first.
	History []HistoryEntry `json:"history" yaml:"-"`

	PreferredPartners []string `json:"preferred_partners" yaml:"-"`

	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// AgentStats holds cumulative counters and their derived rates.
type AgentStats struct {
	TotalTasks   int     `json:"total_tasks"`
	SuccessCount int     `json:"success_count"`
	TotalTime    float64 `json:"total_time"`
	SuccessRate  float64 `json:"success_rate"`
	AvgTime      float64 `json:"avg_time"`
}

// HistoryEntry is one task outcome in an agent's bounded history.
type HistoryEntry struct {
	TaskID        string    `json:"task_id"`
	Success       bool      `json:"success"`
	ExecutionTime float64   `json:"execution_time"`
	Timestamp     time.Time `json:"timestamp"`
}

// Normalize fills optional sub-records so a freshly decoded or registered
// profile never carries nil slices.
func (p *AgentProfile) Normalize() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.History == nil {
		p.History = []HistoryEntry{}
	}
	if p.PreferredPartners == nil {
		p.PreferredPartners = []string{}
	}
}

// Validate rejects profiles that cannot take part in matching.
func (p *AgentProfile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("agent id %w", olyerrors.ErrEmptyValue)
	}
	if p.Stats.TotalTasks < 0 || p.Stats.SuccessCount < 0 || p.Stats.SuccessCount > p.Stats.TotalTasks {
		return fmt.Errorf("agent %s has inconsistent stats: %w", p.ID, olyerrors.ErrRecordCorrupted)
	}
	return nil
}

// HasSkill reports whether the profile declares skill.
func (p *AgentProfile) HasSkill(skill string) bool {
	return slices.Contains(p.Skills, skill)
}

// MergeUnique appends every item of add that dst does not already hold,
// preserving first-appearance order.
func MergeUnique(dst, add []string) []string {
	for _, s := range add {
		if s == "" || slices.Contains(dst, s) {
			continue
		}
		dst = append(dst, s)
	}
	return dst
}
