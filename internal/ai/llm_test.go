package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	olyerrors "github.com/mrz1836/olympus/internal/errors"
	"github.com/mrz1836/olympus/internal/testutil"
)

type stubCompleter struct {
	reply   string
	err     error
	system  string
	prompt  string
	hasDead bool
}

func (s *stubCompleter) complete(ctx context.Context, system, prompt string) (string, error) {
	s.system = system
	s.prompt = prompt
	_, s.hasDead = ctx.Deadline()
	return s.reply, s.err
}

func TestLLMClient_Decompose(t *testing.T) {
	stub := &stubCompleter{reply: `[{"desc":"调研","required_skills":["research"],"agent_type":"athena","estimated_time":20}]`}
	c := NewLLMClient(ProviderAnthropic, stub, time.Minute)

	subtasks, err := c.Decompose(context.Background(), "写一份报告", map[string]any{"priority": "high"})
	require.NoError(t, err)
	require.Len(t, subtasks, 1)
	assert.Equal(t, "athena", subtasks[0].AgentType)
	assert.True(t, subtasks[0].LLMGenerated)

	assert.Contains(t, stub.system, "任务规划专家")
	assert.Contains(t, stub.prompt, "写一份报告")
	assert.Contains(t, stub.prompt, `"priority":"high"`)
	assert.True(t, stub.hasDead)
	assert.Equal(t, ProviderAnthropic, c.Name())
}

func TestLLMClient_Execute(t *testing.T) {
	stub := &stubCompleter{reply: "```json\n{\"success\": true, \"output\": \"done\", \"artifacts\": [\"a.md\"]}\n```"}
	c := NewLLMClient(ProviderOpenAI, stub, 0)

	res, err := c.Execute(context.Background(), "muse", "写文章", nil)
	require.NoError(t, err)
	assert.Equal(t, "done", res.Output)
	assert.Equal(t, []string{"a.md"}, res.Artifacts)
	assert.Contains(t, stub.system, "muse")
	assert.False(t, stub.hasDead)
}

func TestLLMClient_BackendError(t *testing.T) {
	stub := &stubCompleter{err: testutil.ErrMockLLM}
	c := NewLLMClient(ProviderOpenAI, stub, 0)

	_, err := c.Decompose(context.Background(), "x", nil)
	require.ErrorIs(t, err, olyerrors.ErrCollaboratorUnavailable)
	require.ErrorIs(t, err, testutil.ErrMockLLM)
}

func TestFallback_Decompose(t *testing.T) {
	primary := NewLLMClient(ProviderOpenAI, &stubCompleter{err: testutil.ErrMockLLM}, 0)
	f := NewFallback(primary, NewMock(), zerolog.Nop())

	subtasks, err := f.Decompose(context.Background(), "为一个小型创业团队生成一周的社交媒体内容计划", nil)
	require.NoError(t, err)
	assert.Len(t, subtasks, 5)
	assert.False(t, subtasks[0].LLMGenerated)
}

func TestFallback_DecomposeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	primary := NewLLMClient(ProviderOpenAI, &stubCompleter{err: testutil.ErrMockLLM}, 0)
	f := NewFallback(primary, NewMock(), zerolog.Nop())

	_, err := f.Decompose(ctx, "x", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFallback_ExecutePassesErrors(t *testing.T) {
	primary := NewLLMClient(ProviderOpenAI, &stubCompleter{err: testutil.ErrMockTimeout}, 0)
	f := NewFallback(primary, NewMock(), zerolog.Nop())

	_, err := f.Execute(context.Background(), "athena", "x", nil)
	require.ErrorIs(t, err, testutil.ErrMockTimeout)
}

func TestNew(t *testing.T) {
	c, err := New(Options{}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Mock{}, c)

	_, err = New(Options{Provider: "bard"}, zerolog.Nop())
	require.ErrorIs(t, err, olyerrors.ErrUnknownProvider)

	t.Setenv("OLYMPUS_TEST_EMPTY_KEY", "")
	c, err = New(Options{Provider: ProviderAnthropic, APIKeyEnvVar: "OLYMPUS_TEST_EMPTY_KEY"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Mock{}, c, "missing key degrades to mock")

	t.Setenv("OLYMPUS_TEST_KEY", "sk-ant-test")
	c, err = New(Options{Provider: ProviderAnthropic, APIKeyEnvVar: "OLYMPUS_TEST_KEY", Timeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Fallback{}, c)
}

func TestDefaultAPIKeyEnvVar(t *testing.T) {
	assert.Equal(t, "ANTHROPIC_API_KEY", DefaultAPIKeyEnvVar(ProviderAnthropic))
	assert.Equal(t, "OPENAI_API_KEY", DefaultAPIKeyEnvVar(ProviderOpenAI))
	assert.Empty(t, DefaultAPIKeyEnvVar(ProviderMock))
}
