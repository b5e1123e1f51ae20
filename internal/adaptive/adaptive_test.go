package adaptive

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/olympus/internal/clock"
	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/domain"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
	"github.com/mrz1836/olympus/internal/eventlog"
	"github.com/mrz1836/olympus/internal/memory"
	"github.com/mrz1836/olympus/internal/store"
	"github.com/mrz1836/olympus/internal/testutil"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		errText string
		want    constants.FailureType
	}{
		{testutil.ErrMockAgentUnavailable.Error(), constants.FailureAgentUnavailable},
		{"Agent data_agent unavailable", constants.FailureAgentUnavailable},
		{"profile NOT FOUND", constants.FailureAgentUnavailable},
		{"task too complex", constants.FailureTaskTooComplex},
		{testutil.ErrMockTimeout.Error(), constants.FailureTaskTooComplex},
		{"Agent cannot perform task: skill mismatch", constants.FailureSkillMismatch},
		{"agents disagree on tone", constants.FailureConflict},
		{"merge CONFLICT", constants.FailureConflict},
		{"something odd", constants.FailureUnknown},
		{"", constants.FailureUnknown},
		// earlier rules win
		{"skill service unavailable", constants.FailureAgentUnavailable},
		{"timeout: cannot reach", constants.FailureTaskTooComplex},
	}
	for _, tt := range tests {
		t.Run(tt.errText, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.errText))
		})
	}
}

func TestStrategyFor(t *testing.T) {
	assert.Equal(t, constants.StrategyFindAlternativeAgent, StrategyFor(constants.FailureAgentUnavailable))
	assert.Equal(t, constants.StrategyDecomposeFurther, StrategyFor(constants.FailureTaskTooComplex))
	assert.Equal(t, constants.StrategyReassignAgent, StrategyFor(constants.FailureSkillMismatch))
	assert.Equal(t, constants.StrategyHubMediation, StrategyFor(constants.FailureConflict))
	assert.Equal(t, constants.StrategyRequestHumanHelp, StrategyFor(constants.FailureUnknown))
	assert.Equal(t, constants.StrategyRequestHumanHelp, StrategyFor("weird"))
}

func TestMergeStrategies(t *testing.T) {
	s, err := MergeStrategies(map[string]StrategyParams{
		"hub_mediation": {SuccessProbability: 0.5, EstimatedMinutes: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, StrategyParams{SuccessProbability: 0.5, EstimatedMinutes: 5}, s[constants.StrategyHubMediation])
	assert.Equal(t, StrategyParams{SuccessProbability: 0.95}, s[constants.StrategyRequestHumanHelp])

	_, err = MergeStrategies(map[string]StrategyParams{"pray": {}})
	require.ErrorIs(t, err, olyerrors.ErrConfigInvalidAdaptive)

	_, err = MergeStrategies(map[string]StrategyParams{"hub_mediation": {SuccessProbability: 1.5}})
	require.ErrorIs(t, err, olyerrors.ErrConfigInvalidAdaptive)

	_, err = MergeStrategies(map[string]StrategyParams{"hub_mediation": {EstimatedMinutes: -1}})
	require.ErrorIs(t, err, olyerrors.ErrConfigInvalidAdaptive)
}

type fixture struct {
	engine  *Engine
	mem     *memory.System
	taskLog *eventlog.TaskLog
	logs    *bytes.Buffer
}

func newFixture(t *testing.T, strategies Strategies) *fixture {
	t.Helper()
	ctx := context.Background()
	clk := clock.NewStepClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), time.Second)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	mem := memory.NewSystem(store.NewMemoryBackend(), logger, clk)
	for _, a := range []domain.AgentProfile{
		{ID: "data_agent", Name: "Data Agent", Skills: []string{"research", "analysis"}},
		{ID: "athena", Name: "Athena", Skills: []string{"research", "analysis", "strategy"}},
		{ID: "apollo", Name: "Apollo", Skills: []string{"writing"}},
	} {
		require.NoError(t, mem.Semantic.RegisterAgent(ctx, a.ID, a))
	}
	mem.Working.InitTask("task_001", "写一份行业研究报告")

	taskLog := eventlog.NewTaskLog("", clk, logger)
	e := New(Deps{
		Matcher:    mem.Semantic,
		Working:    mem.Working,
		Decomposer: stubDecomposer{},
		Decisions:  taskLog,
		Clock:      clk,
	}, strategies, logger)
	return &fixture{engine: e, mem: mem, taskLog: taskLog, logs: &buf}
}

type stubDecomposer struct{}

func (stubDecomposer) Decompose(_ context.Context, description string, _ map[string]any) ([]domain.Subtask, error) {
	return []domain.Subtask{{ID: "s1", Description: description}, {ID: "s2", Description: description}}, nil
}

func TestDetectFailure(t *testing.T) {
	f := newFixture(t, nil)
	st := &domain.Subtask{ID: "st_1", AgentType: "data_agent", RequiredSkills: []string{"research"}}

	rec := f.engine.DetectFailure("task_001", st, "Agent data_agent unavailable")
	assert.Equal(t, constants.FailureAgentUnavailable, rec.Type)
	assert.Equal(t, "st_1", rec.SubtaskID)
	assert.Equal(t, "data_agent", rec.AgentID)
	assert.Equal(t, []string{"research"}, rec.RequiredSkills)
	assert.Equal(t, "写一份行业研究报告", rec.Context[domain.ContextTaskDesc])
	assert.False(t, rec.Timestamp.IsZero())
	assert.Contains(t, f.logs.String(), "failure detected")

	// inactive task: empty snapshot, still recorded
	rec = f.engine.DetectFailure("gone", nil, "conflict")
	assert.Empty(t, rec.Context)
	assert.Len(t, f.engine.Failures(), 2)
}

func TestGenerateRecoveryPlan_AlternativeAgent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	st := &domain.Subtask{ID: "st_1", AgentType: "data_agent", RequiredSkills: []string{"research", "analysis"}}

	rec := f.engine.DetectFailure("task_001", st, "Agent data_agent unavailable")
	plan, err := f.engine.GenerateRecoveryPlan(ctx, rec)
	require.NoError(t, err)

	assert.Equal(t, constants.StrategyFindAlternativeAgent, plan.Strategy)
	assert.Equal(t, "athena", plan.AlternativeAgent, "the failed agent is skipped")
	assert.InDelta(t, 0.8, plan.SuccessProbability, 0.001)
	assert.Equal(t, 15, plan.EstimatedMinutes)
	assert.Equal(t, "1. 识别替代 Agent: Athena", plan.Steps[0])
}

func TestGenerateRecoveryPlan_NoAlternativeFallsBackToHuman(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	st := &domain.Subtask{ID: "st_1", RequiredSkills: []string{"quantum_physics"}}

	rec := f.engine.DetectFailure("task_001", st, "agent not found")
	plan, err := f.engine.GenerateRecoveryPlan(ctx, rec)
	require.NoError(t, err)

	assert.Equal(t, constants.StrategyRequestHumanHelp, plan.Strategy)
	assert.Equal(t, constants.FailureAgentUnavailable, plan.FailureType)
	assert.InDelta(t, 0.95, plan.SuccessProbability, 0.001)
	assert.Equal(t, 0, plan.EstimatedMinutes)
	assert.Equal(t, "任务 task_001 执行失败：agent not found", plan.HelpRequest)
}

func TestGenerateRecoveryPlan_SkillsFromContext(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.mem.Working.UpdateContext("task_001", domain.ContextSkills, []any{"writing"}))

	rec := f.engine.DetectFailure("task_001", &domain.Subtask{ID: "x"}, "unavailable")
	plan, err := f.engine.GenerateRecoveryPlan(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, "apollo", plan.AlternativeAgent)
}

func TestGenerateRecoveryPlan_Table(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	tests := []struct {
		errText     string
		strategy    constants.RecoveryStrategy
		probability float64
		minutes     int
		steps       int
	}{
		{"task too complex", constants.StrategyDecomposeFurther, 0.7, 30, 3},
		{"Agent cannot perform task: skill mismatch", constants.StrategyReassignAgent, 0.75, 10, 3},
		{"agents disagree", constants.StrategyHubMediation, 0.85, 20, 4},
		{"disk on fire", constants.StrategyRequestHumanHelp, 0.95, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.strategy.String(), func(t *testing.T) {
			rec := f.engine.DetectFailure("task_001", &domain.Subtask{ID: "s"}, tt.errText)
			plan, err := f.engine.GenerateRecoveryPlan(ctx, rec)
			require.NoError(t, err)
			assert.Equal(t, tt.strategy, plan.Strategy)
			assert.InDelta(t, tt.probability, plan.SuccessProbability, 0.001)
			assert.Equal(t, tt.minutes, plan.EstimatedMinutes)
			assert.Len(t, plan.Steps, tt.steps)
		})
	}
}

func TestGenerateRecoveryPlan_DecomposeFurther(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.engine.DetectFailure("task_001", &domain.Subtask{ID: "s"}, "request timeout")
	plan, err := f.engine.GenerateRecoveryPlan(context.Background(), rec)
	require.NoError(t, err)

	require.Len(t, plan.NewSubtasks, 2)
	assert.Equal(t, "简化版：写一份行业研究报告", plan.NewSubtasks[0].Description)
	assert.Equal(t, "2. 生成 2 个简化子任务", plan.Steps[1])
}

func TestGenerateRecoveryPlan_ConfiguredEstimates(t *testing.T) {
	f := newFixture(t, Strategies{
		constants.StrategyHubMediation: {SuccessProbability: 0.6, EstimatedMinutes: 45},
	})
	rec := f.engine.DetectFailure("task_001", nil, "conflict")
	plan, err := f.engine.GenerateRecoveryPlan(context.Background(), rec)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, plan.SuccessProbability, 0.001)
	assert.Equal(t, 45, plan.EstimatedMinutes)
}

func TestExecuteRecoveryAndStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	empty := f.engine.Stats()
	assert.Equal(t, 0, empty.TotalFailures)
	assert.Empty(t, empty.MostCommonFailure)

	for _, errText := range []string{"unavailable", "skill mismatch", "skill gap", "??"} {
		rec := f.engine.DetectFailure("task_001", &domain.Subtask{ID: "s", RequiredSkills: []string{"writing"}}, errText)
		plan, err := f.engine.GenerateRecoveryPlan(ctx, rec)
		require.NoError(t, err)
		ok, err := f.engine.ExecuteRecovery(ctx, "task_001", plan)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	stats := f.engine.Stats()
	assert.Equal(t, 4, stats.TotalFailures)
	assert.Equal(t, constants.FailureSkillMismatch, stats.MostCommonFailure)
	assert.Equal(t, map[constants.FailureType]int{
		constants.FailureAgentUnavailable: 1,
		constants.FailureSkillMismatch:    2,
		constants.FailureUnknown:          1,
	}, stats.FailureDistribution)
	assert.Equal(t, 4, stats.RecoveryAttempts)
	assert.InDelta(t, 0.75, stats.RecoverySuccessRate, 0.001)

	events, err := f.taskLog.TaskLogs(ctx, "task_001")
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, constants.EventDecision, events[0].Type)
	assert.Equal(t, "adaptive_recovery", events[0].Data["decision_type"])
	assert.Equal(t, "find_alternative_agent", events[0].Data["decision"])
	assert.Equal(t, "自动恢复：80% 成功率", events[0].Data["rationale"])

	ok, err := f.engine.ExecuteRecovery(ctx, "task_001", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUnknownErrorScenario(t *testing.T) {
	e := New(Deps{}, nil, zerolog.Nop())
	rec := e.DetectFailure("t", nil, "completely unrecognized")
	require.Equal(t, constants.FailureUnknown, rec.Type)

	plan, err := e.GenerateRecoveryPlan(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, constants.StrategyRequestHumanHelp, plan.Strategy)
	assert.InDelta(t, 0.95, plan.SuccessProbability, 0.0001)
}
