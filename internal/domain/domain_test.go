package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/olympus/internal/constants"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

func TestSkillSet(t *testing.T) {
	subtasks := []*Subtask{
		{ID: "a", RequiredSkills: []string{"research", "analysis"}},
		nil,
		{ID: "b", RequiredSkills: []string{"analysis", "writing"}},
		{ID: "c"},
	}

	assert.Equal(t, []string{"research", "analysis", "writing"}, SkillSet(subtasks))
	assert.Empty(t, SkillSet(nil))
}

func TestMergeUnique(t *testing.T) {
	got := MergeUnique([]string{"coding"}, []string{"testing", "coding", "", "testing", "debugging"})
	assert.Equal(t, []string{"coding", "testing", "debugging"}, got)
}

func TestAgentProfile_NormalizeAndValidate(t *testing.T) {
	p := &AgentProfile{ID: "athena"}
	p.Normalize()
	assert.NotNil(t, p.Skills)
	assert.NotNil(t, p.History)
	assert.NotNil(t, p.PreferredPartners)
	require.NoError(t, p.Validate())

	empty := &AgentProfile{}
	require.ErrorIs(t, empty.Validate(), olyerrors.ErrEmptyValue)

	broken := &AgentProfile{ID: "x", Stats: AgentStats{TotalTasks: 1, SuccessCount: 2}}
	require.ErrorIs(t, broken.Validate(), olyerrors.ErrRecordCorrupted)
}

func TestAgentProfile_HasSkill(t *testing.T) {
	p := &AgentProfile{Skills: []string{"review", "feedback"}}
	assert.True(t, p.HasSkill("review"))
	assert.False(t, p.HasSkill("coding"))
}

func TestTeam_Members(t *testing.T) {
	team := &Team{Members: []TeamMember{{AgentID: "apollo"}, {AgentID: "themis"}}}
	assert.Equal(t, []string{"apollo", "themis"}, team.MemberIDs())
	assert.True(t, team.HasMember("themis"))
	assert.False(t, team.HasMember("hermes"))
}

func TestClawResult_OK(t *testing.T) {
	assert.False(t, ClawResult{Error: ClawErrorNoMatchedAgents}.OK())
	assert.False(t, ClawResult{}.OK())
	assert.True(t, ClawResult{Team: &Team{}}.OK())
}

func TestEpisodicRecord_Helpers(t *testing.T) {
	r := &EpisodicRecord{Context: map[string]any{
		ContextTaskDesc: "write a research report",
		ContextSuccess:  true,
	}}
	assert.Equal(t, "write a research report", r.Description())
	assert.True(t, r.Succeeded())

	bare := &EpisodicRecord{}
	assert.Empty(t, bare.Description())
	assert.False(t, bare.Succeeded())
}

func TestTask_JSONFieldNames(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	task := Task{
		ID:          "t1",
		Description: "d",
		Priority:    constants.PriorityHigh,
		Status:      constants.TaskStatusParsed,
		Subtasks: []*Subtask{{
			ID: "s1", RequiredSkills: []string{"writing"}, AgentType: "apollo",
			EstimatedMinutes: 90, Status: constants.SubtaskStatusPending,
		}},
		CreatedAt: created,
		UpdatedAt: created,
	}

	data, err := json.Marshal(task)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "high", raw["priority"])
	assert.Equal(t, "parsed", raw["status"])
	assert.NotContains(t, raw, "claw_id")

	sub := raw["subtasks"].([]any)[0].(map[string]any)
	assert.InDelta(t, 90, sub["estimated_time"], 0)
	assert.Equal(t, []any{"writing"}, sub["required_skills"])
}
