package hub

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/olympus/internal/adaptive"
	"github.com/mrz1836/olympus/internal/ai"
	"github.com/mrz1836/olympus/internal/clock"
	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/ctxutil"
	"github.com/mrz1836/olympus/internal/domain"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
	"github.com/mrz1836/olympus/internal/eventlog"
	"github.com/mrz1836/olympus/internal/evolution"
	"github.com/mrz1836/olympus/internal/memory"
)

// Options tunes the hub. Zero values take the package defaults.
type Options struct {
	// FailureKeyword marks delivery feedback as a failure when present.
	FailureKeyword string

	// DefaultAgentType is used for subtasks that carry no agent hint.
	DefaultAgentType string

	// MiningInterval triggers pattern discovery every N delivered tasks.
	// A negative value disables mining.
	MiningInterval int
}

func (o Options) withDefaults() Options {
	if o.FailureKeyword == "" {
		o.FailureKeyword = constants.DefaultFailureKeyword
	}
	if o.DefaultAgentType == "" {
		o.DefaultAgentType = constants.DefaultAgentType
	}
	if o.MiningInterval == 0 {
		o.MiningInterval = constants.DefaultMiningInterval
	}
	return o
}

// Deps are the components the hub drives. Memory and Collaborator are
// required. Without Adaptive failed subtasks get no recovery plan, and
// without Evolution delivery skips profile updates and mining.
type Deps struct {
	Memory       *memory.System
	Collaborator ai.Client
	Adaptive     *adaptive.Engine
	Evolution    *evolution.Engine
	Events       *eventlog.TaskLog
	Clock        clock.Clock
}

// entry serializes all operations on one task.
type entry struct {
	mu   sync.Mutex
	task *domain.Task
	team *domain.Team
}

// statusView is the part of an entry Status reports. It is kept under
// Hub.mu so status reads never wait on a task that is executing.
type statusView struct {
	status     constants.TaskStatus
	clawID     string
	clawStatus constants.TeamStatus
}

// Hub is the task orchestrator.
type Hub struct {
	memory    *memory.System
	collab    ai.Client
	adaptive  *adaptive.Engine
	evolution *evolution.Engine
	events    *eventlog.TaskLog
	clock     clock.Clock
	opts      Options
	logger    zerolog.Logger

	mu        sync.Mutex
	entries   map[string]*entry
	views     map[string]statusView
	order     []string
	delivered int
}

// New creates a Hub.
func New(deps Deps, opts Options, logger zerolog.Logger) (*Hub, error) {
	if deps.Memory == nil {
		return nil, fmt.Errorf("hub memory %w", olyerrors.ErrEmptyValue)
	}
	if deps.Collaborator == nil {
		return nil, fmt.Errorf("hub collaborator %w", olyerrors.ErrEmptyValue)
	}
	if deps.Clock == nil {
		deps.Clock = clock.RealClock{}
	}
	if deps.Events == nil {
		deps.Events = eventlog.NewTaskLog("", deps.Clock, logger)
	}
	return &Hub{
		memory:    deps.Memory,
		collab:    deps.Collaborator,
		adaptive:  deps.Adaptive,
		evolution: deps.Evolution,
		events:    deps.Events,
		clock:     deps.Clock,
		opts:      opts.withDefaults(),
		logger:    logger,
		entries:   make(map[string]*entry),
		views:     make(map[string]statusView),
	}, nil
}

// lookup returns the entry for taskID, locked. The caller must unlock it.
func (h *Hub) lookup(taskID string) (*entry, error) {
	h.mu.Lock()
	e, ok := h.entries[taskID]
	h.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("task %s: %w", taskID, olyerrors.ErrTaskNotFound)
	}
	e.mu.Lock()
	return e, nil
}

// Receive registers a new task in the received state and opens its working
// context.
func (h *Hub) Receive(ctx context.Context, req domain.TaskRequest) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.Description) == "" {
		return "", olyerrors.ErrEmptyDescription
	}
	if req.UserID == "" {
		req.UserID = constants.DefaultUserID
	}
	if req.Priority == "" {
		req.Priority = constants.PriorityNormal
	}
	if !req.Priority.IsValid() {
		return "", fmt.Errorf("%q: %w", req.Priority, olyerrors.ErrInvalidPriority)
	}

	now := h.clock.Now()
	task := &domain.Task{
		ID:          uuid.NewString(),
		Description: req.Description,
		UserID:      req.UserID,
		Priority:    req.Priority,
		Status:      constants.TaskStatusReceived,
		Subtasks:    []*domain.Subtask{},
		Results:     map[string]*domain.ExecutionResult{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	h.memory.Working.InitTask(task.ID, task.Description)
	w := h.memory.Working
	_ = w.UpdateContext(task.ID, domain.ContextPriority, task.Priority.String())
	_ = w.UpdateContext(task.ID, domain.ContextUserID, task.UserID)
	_ = w.AddMessage(task.ID, "user", "hub", task.Description, map[string]any{"priority": task.Priority.String()})

	h.mu.Lock()
	h.entries[task.ID] = &entry{task: task}
	h.views[task.ID] = statusView{status: task.Status}
	h.order = append(h.order, task.ID)
	h.mu.Unlock()

	h.logger.Info().
		Str("task_id", task.ID).
		Str("priority", task.Priority.String()).
		Str("description", truncate(task.Description, 50)).
		Msg("task received")
	return task.ID, nil
}

// Parse decomposes a received task. A stored pattern for the description's
// category supplies template subtasks; otherwise the decomposition
// collaborator is asked.
func (h *Hub) Parse(ctx context.Context, taskID string) ([]domain.Subtask, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	e, err := h.lookup(taskID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	task := e.task
	if err := requireStatus(task, constants.TaskStatusParsed); err != nil {
		return nil, err
	}

	pattern, found, err := h.memory.Semantic.MatchPattern(ctx, task.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to match pattern for task %s: %w", taskID, err)
	}

	var drafts []domain.Subtask
	rationale := "LLM 创造性分解"
	if found {
		drafts = pattern.Subtasks
		task.PatternID = pattern.ID
		rationale = "模式匹配"
	} else {
		snapshot, _ := h.memory.Working.Snapshot(taskID)
		drafts, err = h.collab.Decompose(ctx, task.Description, snapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to decompose task %s: %w", taskID, err)
		}
	}

	task.Subtasks = freshSubtasks(drafts, !found)
	if err := h.transition(ctx, task, constants.TaskStatusParsed, rationale); err != nil {
		return nil, err
	}
	h.publish(e)

	h.syncSubtasks(task)
	_ = h.memory.Working.AddMessage(taskID, "hub", "system",
		fmt.Sprintf("任务已分解为 %d 个子任务", len(task.Subtasks)), nil)
	h.event(h.events.Decision(ctx, taskID, "task_decomposition",
		fmt.Sprintf("分解为%d个子任务", len(task.Subtasks)), rationale), taskID)

	h.logger.Info().
		Str("task_id", taskID).
		Str("pattern_id", task.PatternID).
		Int("subtasks", len(task.Subtasks)).
		Msg("task parsed")
	return subtaskValues(task.Subtasks), nil
}

// FormClaw matches agents against the union of the subtasks' skills and
// binds every positively scored agent to the task. When nobody matches the
// result carries ClawErrorNoMatchedAgents, the error is nil and the task
// stays parsed.
func (h *Hub) FormClaw(ctx context.Context, taskID string) (domain.ClawResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return domain.ClawResult{}, err
	}
	e, err := h.lookup(taskID)
	if err != nil {
		return domain.ClawResult{}, err
	}
	defer e.mu.Unlock()

	task := e.task
	if err := requireStatus(task, constants.TaskStatusReady); err != nil {
		return domain.ClawResult{}, err
	}

	skills := domain.SkillSet(task.Subtasks)
	if skills == nil {
		skills = []string{}
	}
	matches, err := h.memory.Semantic.MatchAgents(ctx, skills)
	if err != nil {
		return domain.ClawResult{}, fmt.Errorf("failed to match agents for task %s: %w", taskID, err)
	}

	if len(matches) == 0 {
		h.logger.Warn().
			Str("task_id", taskID).
			Strs("required_skills", skills).
			Msg("no agents match required skills")
		h.event(h.events.Decision(ctx, taskID, "claw_formation", domain.ClawErrorNoMatchedAgents,
			strings.Join(skills, ",")), taskID)
		return domain.ClawResult{RequiredSkills: skills, Error: domain.ClawErrorNoMatchedAgents}, nil
	}

	team := &domain.Team{
		ID:        constants.ClawIDPrefix + truncate(taskID, constants.SubtaskIDLength),
		TaskID:    taskID,
		Members:   make([]domain.TeamMember, 0, len(matches)),
		Lead:      matches[0].Profile.ID,
		Status:    constants.TeamStatusFormed,
		CreatedAt: h.clock.Now(),
	}
	for _, m := range matches {
		team.Members = append(team.Members, domain.TeamMember{
			AgentID:    m.Profile.ID,
			Name:       m.Profile.Name,
			Role:       m.Profile.Role,
			MatchScore: memory.Round(m.Score, 2),
		})
	}

	if err := h.transition(ctx, task, constants.TaskStatusReady, "claw formed"); err != nil {
		return domain.ClawResult{}, err
	}
	e.team = team
	task.ClawID = team.ID
	h.publish(e)

	w := h.memory.Working
	_ = w.UpdateContext(taskID, domain.ContextSkills, skills)
	_ = w.UpdateContext(taskID, domain.ContextClaw, *team)
	_ = w.AddMessage(taskID, "hub", "claw",
		fmt.Sprintf("Claw %s 已组建，主导 Agent: %s", team.ID, team.Lead), nil)

	h.logger.Info().
		Str("task_id", taskID).
		Str("claw_id", team.ID).
		Str("lead", team.Lead).
		Int("members", len(team.Members)).
		Msg("claw formed")
	return domain.ClawResult{ClawID: team.ID, Team: cloneTeam(team), RequiredSkills: skills}, nil
}

// Execute runs every subtask in order. A failed subtask is recorded, handed
// to the adaptive engine for a recovery plan and skipped; it never stops the
// remaining subtasks. The task and its team end up completed either way.
// ctx is only checked before execution starts; once the task is executing
// every subtask runs even if ctx is canceled.
func (h *Hub) Execute(ctx context.Context, taskID string) (*domain.Task, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	e, err := h.lookup(taskID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	task := e.task
	if e.team == nil {
		return nil, fmt.Errorf("task %s: %w", taskID, olyerrors.ErrTeamNotAssigned)
	}
	if err := h.transition(ctx, task, constants.TaskStatusExecuting, "execution started"); err != nil {
		return nil, err
	}
	e.team.Status = constants.TeamStatusExecuting
	h.publish(e)

	// No mid-flight abort: from here on cancellation is ignored.
	ctx = context.WithoutCancel(ctx)

	h.event(h.events.TaskStart(ctx, taskID, task.Description, map[string]any{
		"claw_id": e.team.ID,
		"lead":    e.team.Lead,
		"members": e.team.MemberIDs(),
	}), taskID)
	_ = h.memory.Working.AddMessage(taskID, "hub", "claw", "开始执行", nil)

	for i, st := range task.Subtasks {
		h.runSubtask(ctx, e, st, i)
	}

	if err := h.transition(ctx, task, constants.TaskStatusCompleted, "all subtasks attempted"); err != nil {
		return nil, err
	}
	e.team.Status = constants.TeamStatusCompleted
	h.publish(e)
	_ = h.memory.Working.UpdateContext(taskID, domain.ContextClaw, *e.team)

	h.logger.Info().
		Str("task_id", taskID).
		Int("completed", countStatus(task.Subtasks, constants.SubtaskStatusCompleted)).
		Int("failed", countStatus(task.Subtasks, constants.SubtaskStatusFailed)).
		Msg("task executed")
	return cloneTask(task), nil
}

func (h *Hub) runSubtask(ctx context.Context, e *entry, st *domain.Subtask, index int) {
	task := e.task
	agentType := st.AgentType
	if agentType == "" {
		agentType = h.opts.DefaultAgentType
	}

	h.event(h.events.SubtaskStart(ctx, task.ID, st, agentType), task.ID)
	h.logger.Debug().
		Str("task_id", task.ID).
		Str("subtask_id", st.ID).
		Str("agent_id", agentType).
		Int("index", index+1).
		Int("total", len(task.Subtasks)).
		Msg("executing subtask")

	snapshot, _ := h.memory.Working.Snapshot(task.ID)
	res, err := h.collab.Execute(ctx, agentType, st.Description, snapshot)
	switch {
	case err != nil:
		h.failSubtask(ctx, e, st, agentType, err.Error())
		return
	case res == nil:
		h.failSubtask(ctx, e, st, agentType, "execution returned no result")
		return
	case !res.Success:
		h.failSubtask(ctx, e, st, agentType, firstNonEmpty(res.Output, "execution reported failure"))
		return
	}

	st.Status = constants.SubtaskStatusCompleted
	st.Result = res
	task.Results[st.ID] = res
	h.syncSubtasks(task)
	_ = h.memory.Working.AddMessage(task.ID, agentType, "hub", res.Output,
		map[string]any{"subtask_id": st.ID, "artifacts": res.Artifacts})
	h.event(h.events.SubtaskComplete(ctx, task.ID, st.ID, res), task.ID)
}

func (h *Hub) failSubtask(ctx context.Context, e *entry, st *domain.Subtask, agentType, errText string) {
	task := e.task
	st.Status = constants.SubtaskStatusFailed
	st.Error = errText

	h.logger.Warn().
		Str("task_id", task.ID).
		Str("subtask_id", st.ID).
		Str("agent_id", agentType).
		Str("error", errText).
		Msg("subtask failed")
	_ = h.memory.Working.AddMessage(task.ID, agentType, "hub", "异常："+errText,
		map[string]any{"subtask_id": st.ID})

	resolution := "continue"
	if h.adaptive != nil {
		if plan := h.recover(ctx, e, st, errText); plan != nil {
			st.Recovery = plan
			resolution = plan.Strategy.String()
		}
	}
	h.syncSubtasks(task)
	h.event(h.events.Exception(ctx, task.ID, errText, resolution), task.ID)
}

// recover asks the adaptive engine for a plan. A found alternative agent
// joins the team; the subtask itself is not re-run.
func (h *Hub) recover(ctx context.Context, e *entry, st *domain.Subtask, errText string) *domain.RecoveryPlan {
	taskID := e.task.ID
	failure := h.adaptive.DetectFailure(taskID, st, errText)
	plan, err := h.adaptive.GenerateRecoveryPlan(ctx, failure)
	if err != nil {
		h.logger.Warn().Err(err).Str("task_id", taskID).Str("subtask_id", st.ID).Msg("no recovery plan")
		return nil
	}
	if _, err := h.adaptive.ExecuteRecovery(ctx, taskID, plan); err != nil {
		h.logger.Warn().Err(err).Str("task_id", taskID).Msg("recovery not recorded")
	}

	alt := plan.AlternativeAgent
	if plan.Strategy != constants.StrategyFindAlternativeAgent || alt == "" || e.team.HasMember(alt) {
		return plan
	}
	member := domain.TeamMember{AgentID: alt}
	if p, err := h.memory.Semantic.GetAgentProfile(ctx, alt); err == nil {
		member.Name = p.Name
		member.Role = p.Role
		member.MatchScore = memory.Round(memory.Score(st.RequiredSkills, p.Skills), 2)
	}
	e.team.Members = append(e.team.Members, member)
	_ = h.memory.Working.UpdateContext(taskID, domain.ContextClaw, *e.team)
	h.logger.Info().
		Str("task_id", taskID).
		Str("agent_id", alt).
		Msg("alternative agent joined claw")
	return plan
}

// Deliver hands back the result, archives the task and evolves every team
// member. Success is false only when feedback contains the failure keyword.
// Every MiningInterval-th delivery triggers pattern discovery. Once the
// status check passes, delivery runs to the end even if ctx is canceled, so
// a task is never archived without being marked delivered.
func (h *Hub) Deliver(ctx context.Context, taskID string, d domain.Delivery) (*domain.Task, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	e, err := h.lookup(taskID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	task := e.task
	if err := requireStatus(task, constants.TaskStatusDelivered); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	success := d.Feedback == "" || !strings.Contains(d.Feedback, h.opts.FailureKeyword)
	w := h.memory.Working
	_ = w.UpdateContext(taskID, domain.ContextFinalResult, d.Result)
	_ = w.UpdateContext(taskID, domain.ContextStatus, constants.TaskStatusDelivered.String())
	if err := w.CompleteTask(ctx, taskID, success, d.Feedback, h.memory.Episodic); err != nil {
		return nil, fmt.Errorf("failed to archive task %s: %w", taskID, err)
	}

	task.FinalResult = d.Result
	task.Feedback = d.Feedback
	task.Success = success
	if err := Transition(ctx, task, constants.TaskStatusDelivered, "delivered", h.clock.Now()); err != nil {
		return nil, err
	}
	h.publish(e)
	h.event(h.events.TaskComplete(ctx, taskID, map[string]any{
		"result":  d.Result,
		"success": success,
	}, d.Feedback), taskID)

	h.evolveTeam(ctx, e, success)

	h.mu.Lock()
	h.delivered++
	delivered := h.delivered
	h.mu.Unlock()

	if h.evolution != nil && h.opts.MiningInterval > 0 && delivered%h.opts.MiningInterval == 0 {
		if _, err := h.evolution.DiscoverPatterns(ctx, 0); err != nil {
			h.logger.Warn().Err(err).Int("delivered", delivered).Msg("pattern discovery failed")
		}
	}

	h.logger.Info().
		Str("task_id", taskID).
		Bool("success", success).
		Msg("task delivered")
	return cloneTask(task), nil
}

func (h *Hub) evolveTeam(ctx context.Context, e *entry, success bool) {
	if h.evolution == nil || e.team == nil {
		return
	}
	var minutes float64
	for _, st := range e.task.Subtasks {
		if st.Result != nil {
			minutes += st.Result.ExecutionTime
		}
	}
	members := e.team.MemberIDs()
	for _, id := range members {
		partners := slices.DeleteFunc(slices.Clone(members), func(m string) bool { return m == id })
		_, err := h.evolution.EvolveAgent(ctx, id, domain.TaskResult{
			TaskID:        e.task.ID,
			Success:       success,
			ExecutionTime: minutes,
			Collaborators: partners,
		})
		if err != nil {
			h.logger.Warn().Err(err).Str("task_id", e.task.ID).Str("agent_id", id).Msg("agent evolution failed")
		}
	}
}

// RunResult is the outcome of a full Run.
type RunResult struct {
	TaskID string            `json:"task_id"`
	Claw   domain.ClawResult `json:"claw"`
	Task   *domain.Task      `json:"task"`
}

// Run takes a request through every lifecycle step. When no agents match, it
// stops with the task parsed and the claw error in the result.
func (h *Hub) Run(ctx context.Context, req domain.TaskRequest, feedback string) (*RunResult, error) {
	taskID, err := h.Receive(ctx, req)
	if err != nil {
		return nil, err
	}
	res := &RunResult{TaskID: taskID}

	if _, err = h.Parse(ctx, taskID); err != nil {
		return res, err
	}
	if res.Claw, err = h.FormClaw(ctx, taskID); err != nil {
		return res, err
	}
	if !res.Claw.OK() {
		view, viewErr := h.TaskStatus(taskID)
		if viewErr == nil {
			res.Task = view.Task
		}
		return res, nil
	}

	executed, err := h.Execute(ctx, taskID)
	if err != nil {
		return res, err
	}
	res.Task, err = h.Deliver(ctx, taskID, domain.Delivery{
		Result:   summarize(executed),
		Feedback: feedback,
	})
	return res, err
}

// summarize renders a delivery result from the completed subtask outputs.
func summarize(task *domain.Task) string {
	var b strings.Builder
	done := countStatus(task.Subtasks, constants.SubtaskStatusCompleted)
	fmt.Fprintf(&b, "完成 %d/%d 个子任务", done, len(task.Subtasks))
	for _, st := range task.Subtasks {
		if st.Result != nil && st.Result.Output != "" {
			b.WriteString("\n- ")
			b.WriteString(st.Result.Output)
		}
	}
	return b.String()
}

// Status buckets every known task and claw by status. It reads the views
// published on each transition and never waits on a busy task.
func (h *Hub) Status() domain.HubStatus {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := domain.HubStatus{
		TasksByStatus:  map[constants.TaskStatus][]string{},
		ClawsByStatus:  map[constants.TeamStatus][]string{},
		DeliveredTotal: h.delivered,
	}
	for _, id := range h.order {
		v := h.views[id]
		st.TasksByStatus[v.status] = append(st.TasksByStatus[v.status], id)
		if IsActiveStatus(v.status) {
			st.ActiveTasks++
		}
		if v.clawID != "" {
			st.ClawsByStatus[v.clawStatus] = append(st.ClawsByStatus[v.clawStatus], v.clawID)
			if v.clawStatus == constants.TeamStatusExecuting {
				st.ActiveClaws++
			}
		}
	}
	return st
}

// publish records the entry's current status for Status. The caller holds e.mu.
func (h *Hub) publish(e *entry) {
	v := statusView{status: e.task.Status}
	if e.team != nil {
		v.clawID = e.team.ID
		v.clawStatus = e.team.Status
	}
	h.mu.Lock()
	h.views[e.task.ID] = v
	h.mu.Unlock()
}

// TaskStatus returns a copy of the task and its team.
func (h *Hub) TaskStatus(taskID string) (*domain.TaskView, error) {
	e, err := h.lookup(taskID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	view := &domain.TaskView{Task: cloneTask(e.task)}
	if e.team != nil {
		view.Team = cloneTeam(e.team)
	}
	return view, nil
}

// Adaptive returns the hub's adaptive engine, or nil.
func (h *Hub) Adaptive() *adaptive.Engine {
	return h.adaptive
}

// Evolution returns the hub's evolution engine, or nil.
func (h *Hub) Evolution() *evolution.Engine {
	return h.evolution
}

// Memory returns the hub's memory system.
func (h *Hub) Memory() *memory.System {
	return h.memory
}

// Events returns the hub's task event log.
func (h *Hub) Events() *eventlog.TaskLog {
	return h.events
}

// transition moves the task and mirrors the new status into working memory.
func (h *Hub) transition(ctx context.Context, task *domain.Task, to constants.TaskStatus, reason string) error {
	if err := Transition(ctx, task, to, reason, h.clock.Now()); err != nil {
		return err
	}
	_ = h.memory.Working.UpdateContext(task.ID, domain.ContextStatus, to.String())
	return nil
}

func (h *Hub) syncSubtasks(task *domain.Task) {
	_ = h.memory.Working.UpdateContext(task.ID, domain.ContextSubtasks, subtaskValues(task.Subtasks))
}

// event logs a failed event-log write. The event log never fails an operation.
func (h *Hub) event(err error, taskID string) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	h.logger.Warn().Err(err).Str("task_id", taskID).Msg("failed to write task event")
}

// freshSubtasks copies drafts into pending subtasks with new ids. Drafts
// from a collaborator keep their own ids when they have one.
func freshSubtasks(drafts []domain.Subtask, keepIDs bool) []*domain.Subtask {
	out := make([]*domain.Subtask, 0, len(drafts))
	for _, d := range drafts {
		st := &domain.Subtask{
			ID:               d.ID,
			Description:      d.Description,
			RequiredSkills:   slices.Clone(d.RequiredSkills),
			AgentType:        d.AgentType,
			EstimatedMinutes: d.EstimatedMinutes,
			Status:           constants.SubtaskStatusPending,
			LLMGenerated:     d.LLMGenerated,
		}
		if st.RequiredSkills == nil {
			st.RequiredSkills = []string{}
		}
		if !keepIDs || st.ID == "" {
			st.ID = truncate(uuid.NewString(), constants.SubtaskIDLength)
		}
		out = append(out, st)
	}
	return out
}

func subtaskValues(subtasks []*domain.Subtask) []domain.Subtask {
	out := make([]domain.Subtask, 0, len(subtasks))
	for _, st := range subtasks {
		out = append(out, *st)
	}
	return out
}

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	c.Subtasks = make([]*domain.Subtask, 0, len(t.Subtasks))
	for _, st := range t.Subtasks {
		s := *st
		s.RequiredSkills = slices.Clone(st.RequiredSkills)
		c.Subtasks = append(c.Subtasks, &s)
	}
	c.Results = maps.Clone(t.Results)
	c.Transitions = slices.Clone(t.Transitions)
	return &c
}

func cloneTeam(t *domain.Team) *domain.Team {
	c := *t
	c.Members = slices.Clone(t.Members)
	return &c
}

func countStatus(subtasks []*domain.Subtask, status constants.SubtaskStatus) int {
	n := 0
	for _, st := range subtasks {
		if st.Status == status {
			n++
		}
	}
	return n
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
