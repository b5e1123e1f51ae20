package adaptive

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mrz1836/olympus/internal/clock"
	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/domain"
	"github.com/mrz1836/olympus/internal/memory"
)

// AgentMatcher ranks agents against a skill set.
type AgentMatcher interface {
	MatchAgents(ctx context.Context, required []string) ([]memory.Match, error)
}

// ContextSource returns the working context of an active task.
type ContextSource interface {
	Snapshot(taskID string) (map[string]any, error)
}

// Decomposer re-plans a task that proved too complex.
type Decomposer interface {
	Decompose(ctx context.Context, description string, taskContext map[string]any) ([]domain.Subtask, error)
}

// DecisionLogger receives the decision record written by ExecuteRecovery.
type DecisionLogger interface {
	Decision(ctx context.Context, taskID, decisionType, decision, rationale string) error
}

// Deps are the collaborators an Engine consults.
type Deps struct {
	Matcher    AgentMatcher
	Working    ContextSource
	Decomposer Decomposer
	Decisions  DecisionLogger
	Clock      clock.Clock
}

// Engine keeps an in-process failure log and produces recovery plans.
type Engine struct {
	deps       Deps
	strategies Strategies
	logger     zerolog.Logger

	mu        sync.Mutex
	failures  []domain.FailureRecord
	attempts  int
	recovered int
}

// New creates an Engine. Missing strategies fall back to the defaults.
func New(deps Deps, strategies Strategies, logger zerolog.Logger) *Engine {
	merged := DefaultStrategies()
	for k, v := range strategies {
		merged[k] = v
	}
	if deps.Clock == nil {
		deps.Clock = clock.RealClock{}
	}
	return &Engine{
		deps:       deps,
		strategies: merged,
		logger:     logger,
	}
}

// DetectFailure classifies errText, snapshots the task's working context and
// appends the record to the failure log.
func (e *Engine) DetectFailure(taskID string, st *domain.Subtask, errText string) domain.FailureRecord {
	rec := domain.FailureRecord{
		TaskID:    taskID,
		Type:      Classify(errText),
		Error:     errText,
		Context:   map[string]any{},
		Timestamp: e.deps.Clock.Now(),
	}
	if st != nil {
		rec.SubtaskID = st.ID
		rec.AgentID = st.AgentType
		rec.RequiredSkills = append([]string(nil), st.RequiredSkills...)
	}
	if e.deps.Working != nil {
		if snap, err := e.deps.Working.Snapshot(taskID); err == nil {
			rec.Context = snap
		}
	}

	e.mu.Lock()
	e.failures = append(e.failures, rec)
	e.mu.Unlock()

	e.logger.Warn().
		Str("task_id", taskID).
		Str("subtask_id", rec.SubtaskID).
		Str("failure_type", rec.Type.String()).
		Str("error", errText).
		Msg("failure detected")
	return rec
}

// GenerateRecoveryPlan maps the failure to a strategy and fills in its
// steps and estimates. An alternative-agent search that finds nobody
// degrades to a human-help plan.
func (e *Engine) GenerateRecoveryPlan(ctx context.Context, failure domain.FailureRecord) (*domain.RecoveryPlan, error) {
	strategy := StrategyFor(failure.Type)

	switch strategy {
	case constants.StrategyFindAlternativeAgent:
		return e.planAlternativeAgent(ctx, failure)
	case constants.StrategyDecomposeFurther:
		return e.planDecompose(ctx, failure)
	case constants.StrategyReassignAgent:
		return e.plan(strategy, failure, []string{
			"1. 分析所需技能",
			"2. 查找匹配度更高的 Agent",
			"3. 重新分配任务",
		}), nil
	case constants.StrategyHubMediation:
		return e.plan(strategy, failure, []string{
			"1. Hub 收集各方观点",
			"2. 分析冲突根源",
			"3. 提出折中方案",
			"4. 协调执行",
		}), nil
	case constants.StrategyRequestHumanHelp:
	}
	return e.planHumanHelp(failure), nil
}

func (e *Engine) plan(strategy constants.RecoveryStrategy, failure domain.FailureRecord, steps []string) *domain.RecoveryPlan {
	p := e.strategies[strategy]
	return &domain.RecoveryPlan{
		Strategy:           strategy,
		FailureType:        failure.Type,
		Steps:              steps,
		EstimatedMinutes:   p.EstimatedMinutes,
		SuccessProbability: p.SuccessProbability,
	}
}

func (e *Engine) planAlternativeAgent(ctx context.Context, failure domain.FailureRecord) (*domain.RecoveryPlan, error) {
	if e.deps.Matcher == nil {
		return e.planHumanHelp(failure), nil
	}
	matches, err := e.deps.Matcher.MatchAgents(ctx, requiredSkills(failure))
	if err != nil {
		return nil, fmt.Errorf("failed to find alternative agent: %w", err)
	}

	for _, m := range matches {
		if m.Profile.ID == failure.AgentID {
			continue
		}
		p := e.plan(constants.StrategyFindAlternativeAgent, failure, []string{
			fmt.Sprintf("1. 识别替代 Agent: %s", m.Profile.Name),
			"2. 转移任务上下文",
			"3. 重新执行子任务",
		})
		p.AlternativeAgent = m.Profile.ID
		return p, nil
	}

	e.logger.Info().
		Str("task_id", failure.TaskID).
		Msg("no alternative agent found, requesting human help")
	return e.planHumanHelp(failure), nil
}

func (e *Engine) planDecompose(ctx context.Context, failure domain.FailureRecord) (*domain.RecoveryPlan, error) {
	var subtasks []domain.Subtask
	if e.deps.Decomposer != nil {
		desc, _ := failure.Context[domain.ContextTaskDesc].(string)
		var err error
		subtasks, err = e.deps.Decomposer.Decompose(ctx, "简化版："+truncate(desc, 100), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decompose further: %w", err)
		}
	}
	p := e.plan(constants.StrategyDecomposeFurther, failure, []string{
		"1. 重新分解为更小的子任务",
		fmt.Sprintf("2. 生成 %d 个简化子任务", len(subtasks)),
		"3. 逐个执行子任务",
	})
	p.NewSubtasks = subtasks
	return p, nil
}

func (e *Engine) planHumanHelp(failure domain.FailureRecord) *domain.RecoveryPlan {
	p := e.plan(constants.StrategyRequestHumanHelp, failure, []string{
		"1. 汇总失败信息",
		"2. 生成求助请求",
		"3. 等待人类指示",
	})
	p.HelpRequest = fmt.Sprintf("任务 %s 执行失败：%s", truncate(failure.TaskID, 8), truncate(failure.Error, 100))
	return p
}

// ExecuteRecovery records the plan as a decision and counts the attempt.
// It does not re-run any work itself; the caller applies the plan. Every
// plan except a human-help escalation counts toward the recovery rate.
func (e *Engine) ExecuteRecovery(ctx context.Context, taskID string, plan *domain.RecoveryPlan) (bool, error) {
	if plan == nil {
		return false, nil
	}
	for i, step := range plan.Steps {
		e.logger.Debug().Str("task_id", taskID).Int("step", i+1).Msg(step)
	}

	if e.deps.Decisions != nil {
		rationale := fmt.Sprintf("自动恢复：%.0f%% 成功率", plan.SuccessProbability*100)
		if err := e.deps.Decisions.Decision(ctx, taskID, "adaptive_recovery", plan.Strategy.String(), rationale); err != nil {
			return false, fmt.Errorf("failed to log recovery: %w", err)
		}
	}

	e.mu.Lock()
	e.attempts++
	if plan.Strategy != constants.StrategyRequestHumanHelp {
		e.recovered++
	}
	e.mu.Unlock()

	e.logger.Info().
		Str("task_id", taskID).
		Str("strategy", plan.Strategy.String()).
		Msg("recovery executed")
	return true, nil
}

// Stats summarizes the failure log.
func (e *Engine) Stats() domain.AdaptiveStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := domain.AdaptiveStats{
		TotalFailures:       len(e.failures),
		FailureDistribution: make(map[constants.FailureType]int),
		RecoveryAttempts:    e.attempts,
	}
	if e.attempts > 0 {
		stats.RecoverySuccessRate = math.Round(float64(e.recovered)/float64(e.attempts)*100) / 100
	}

	best := 0
	for _, f := range e.failures {
		stats.FailureDistribution[f.Type]++
		if n := stats.FailureDistribution[f.Type]; n > best {
			best = n
			stats.MostCommonFailure = f.Type
		}
	}
	return stats
}

// Failures returns a copy of the failure log.
func (e *Engine) Failures() []domain.FailureRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.FailureRecord(nil), e.failures...)
}

// requiredSkills prefers the skills copied from the subtask and falls back
// to the working-context annotation.
func requiredSkills(failure domain.FailureRecord) []string {
	if len(failure.RequiredSkills) > 0 {
		return failure.RequiredSkills
	}
	switch v := failure.Context[domain.ContextSkills].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, s := range v {
			if str, ok := s.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
