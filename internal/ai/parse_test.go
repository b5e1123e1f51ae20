package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/olympus/internal/constants"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

func fixedID() func() string {
	n := 0
	return func() string {
		n++
		return string(rune('a'+n-1)) + "0000000"
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"raw array", `[{"desc":"a"}]`, `[{"desc":"a"}]`},
		{"json fence", "here you go\n```json\n[1,2]\n```\nthanks", "[1,2]"},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around object", `Result: {"success": true} done`, `{"success": true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ExtractJSON("no json here")
	require.ErrorIs(t, err, olyerrors.ErrMalformedResponse)
}

func TestParseSubtasks_Defaults(t *testing.T) {
	reply := "```json\n" + `[
		{"desc": "写文案", "required_skills": ["writing"], "agent_type": "apollo", "estimated_time": 45},
		{"description": "审核"},
		{}
	]` + "\n```"

	subtasks, err := ParseSubtasks(reply, fixedID())
	require.NoError(t, err)
	require.Len(t, subtasks, 3)

	assert.Equal(t, "a0000000", subtasks[0].ID)
	assert.Equal(t, "写文案", subtasks[0].Description)
	assert.Equal(t, 45, subtasks[0].EstimatedMinutes)

	assert.Equal(t, "审核", subtasks[1].Description)
	assert.Equal(t, []string{"general"}, subtasks[1].RequiredSkills)
	assert.Equal(t, "hephaestus", subtasks[1].AgentType)
	assert.Equal(t, 30, subtasks[1].EstimatedMinutes)

	assert.Equal(t, "未命名任务", subtasks[2].Description)
	for _, st := range subtasks {
		assert.True(t, st.LLMGenerated)
		assert.Equal(t, constants.SubtaskStatusPending, st.Status)
	}
}

func TestParseSubtasks_WrappedObject(t *testing.T) {
	subtasks, err := ParseSubtasks(`{"subtasks":[{"desc":"x","required_skills":["a"]}]}`, fixedID())
	require.NoError(t, err)
	require.Len(t, subtasks, 1)
	assert.Equal(t, []string{"a"}, subtasks[0].RequiredSkills)
}

func TestParseSubtasks_Errors(t *testing.T) {
	for name, reply := range map[string]string{
		"empty array": "[]",
		"bad json":    "[{]",
		"no json":     "sorry, I can't",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSubtasks(reply, fixedID())
			require.ErrorIs(t, err, olyerrors.ErrMalformedResponse)
		})
	}
}

func TestParseExecutionResult(t *testing.T) {
	res, err := ParseExecutionResult(`{"success": false, "output": "blocked", "execution_time": 12.5, "confidence": 0.4}`, "themis", "审核")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "blocked", res.Output)
	assert.InDelta(t, 12.5, res.ExecutionTime, 0.001)
	assert.InDelta(t, 0.4, res.Confidence, 0.001)
	assert.Equal(t, "themis", res.Agent)

	res, err = ParseExecutionResult(`{}`, "apollo", "撰写每日文案草稿")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "[apollo] 完成任务：撰写每日文案草稿", res.Output)
	assert.InDelta(t, 30.0, res.ExecutionTime, 0.001)
	assert.InDelta(t, 0.9, res.Confidence, 0.001)
	assert.Empty(t, res.Artifacts)
	assert.Equal(t, []string{"执行 撰写每日文案草稿..."}, res.Logs)
}
