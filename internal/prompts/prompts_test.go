package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	assert.Equal(t, []PromptID{Execute, ExecuteSystem, Decompose, DecomposeSystem}, List())
}

func TestList_AllPromptsParse(t *testing.T) {
	for _, id := range List() {
		src, err := Source(id)
		require.NoError(t, err, id)
		assert.NotEmpty(t, src, id)
	}
}

func TestRender_DecomposeSystem(t *testing.T) {
	out, err := Render(DecomposeSystem, DecomposeSystemData{AgentTypes: []string{"athena", "muse"}})
	require.NoError(t, err)
	assert.Contains(t, out, "任务规划专家")
	assert.Contains(t, out, "(athena/muse)")
	assert.Contains(t, out, "只返回 JSON 数组")
}

func TestRender_DecomposeWithContext(t *testing.T) {
	out, err := Render(Decompose, DecomposeData{Description: "写一份报告", Context: `{"priority":"high"}`})
	require.NoError(t, err)
	assert.Equal(t, "请分解以下任务：\n\n任务：写一份报告\n上下文：{\"priority\":\"high\"}\n\n请返回子任务列表（JSON 数组格式）：", out)
}

func TestRender_ExecuteWithoutContext(t *testing.T) {
	out, err := Render(Execute, ExecuteData{Description: "撰写文案"})
	require.NoError(t, err)
	assert.Equal(t, "请完成以下任务：\n\n任务描述：撰写文案\n\n请返回 JSON 格式的执行结果：", out)
	assert.NotContains(t, out, "上下文")
}

func TestRender_ExecuteSystem(t *testing.T) {
	out, err := Render(ExecuteSystem, ExecuteSystemData{AgentType: "muse"})
	require.NoError(t, err)
	assert.Contains(t, out, "你是一个专业的 muse Agent。")
	assert.Contains(t, out, `"confidence"`)
}

func TestRender_InvalidData(t *testing.T) {
	_, err := Render(Execute, DecomposeData{Description: "x"})
	require.ErrorIs(t, err, ErrPromptData)
}

func TestRender_UnknownPrompt(t *testing.T) {
	_, err := Render("task/unknown", nil)
	require.ErrorIs(t, err, ErrPromptNotFound)
}

func TestSource(t *testing.T) {
	src, err := Source(ExecuteSystem)
	require.NoError(t, err)
	assert.Contains(t, src, "{{.AgentType}}")

	_, err = Source("nope")
	require.ErrorIs(t, err, ErrPromptNotFound)
}
