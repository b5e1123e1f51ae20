package domain

import (
	"time"

	"github.com/mrz1836/olympus/internal/constants"
)

// Team is a claw: the agents assigned to one task.
type Team struct {
	ID      string       `json:"id"`
	TaskID  string       `json:"task_id"`
	Members []TeamMember `json:"members"`

	// Lead is the agent id of the highest-scoring member.
	Lead string `json:"lead"`

	Status    constants.TeamStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

// TeamMember is one matched agent with its score in [0,1].
type TeamMember struct {
	AgentID    string  `json:"agent_id"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	MatchScore float64 `json:"match_score"`
}

// MemberIDs returns member agent ids in team order.
func (t *Team) MemberIDs() []string {
	ids := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		ids = append(ids, m.AgentID)
	}
	return ids
}

// HasMember reports whether agentID belongs to the team.
func (t *Team) HasMember(agentID string) bool {
	for _, m := range t.Members {
		if m.AgentID == agentID {
			return true
		}
	}
	return false
}

// ClawResult is the outcome of team formation. A business failure such as
// no matching agents is carried in Error with a nil Team.
type ClawResult struct {
	ClawID         string   `json:"claw_id,omitempty"`
	Team           *Team    `json:"team,omitempty"`
	RequiredSkills []string `json:"required_skills"`
	Error          string   `json:"error,omitempty"`
}

// ClawErrorNoMatchedAgents is the ClawResult.Error value when matching found nobody.
const ClawErrorNoMatchedAgents = "no_matched_agents"

// OK reports whether a team was formed.
func (r ClawResult) OK() bool {
	return r.Error == "" && r.Team != nil
}
