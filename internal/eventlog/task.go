package eventlog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mrz1836/olympus/internal/clock"
	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/ctxutil"
	"github.com/mrz1836/olympus/internal/domain"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
	"github.com/mrz1836/olympus/internal/store"
)

// TaskLog is the per-task decision/event sink. Each task gets its own
// <dir>/<task_id>.jsonl file. With an empty dir events are kept in memory.
type TaskLog struct {
	dir    string
	clk    clock.Clock
	logger zerolog.Logger

	mu  sync.Mutex
	mem map[string][]domain.Event
}

// NewTaskLog creates a TaskLog rooted at dir.
func NewTaskLog(dir string, clk clock.Clock, logger zerolog.Logger) *TaskLog {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &TaskLog{
		dir:    dir,
		clk:    clk,
		logger: logger,
		mem:    make(map[string][]domain.Event),
	}
}

func (l *TaskLog) path(taskID string) string {
	return filepath.Join(l.dir, taskID+constants.TaskLogExtension)
}

// Record appends one event for taskID.
func (l *TaskLog) Record(ctx context.Context, taskID string, typ constants.EventType, data map[string]any) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if err := store.ValidateKey(taskID); err != nil {
		return fmt.Errorf("failed to record %s: %w", typ, err)
	}

	ev := domain.Event{
		Timestamp: l.clk.Now(),
		TaskID:    taskID,
		Type:      typ,
		Data:      data,
	}

	if l.dir == "" {
		l.mu.Lock()
		l.mem[taskID] = append(l.mem[taskID], ev)
		l.mu.Unlock()
		return nil
	}
	return appendLine(ctx, l.path(taskID), ev)
}

// TaskStart records the start of execution with the claw summary.
func (l *TaskLog) TaskStart(ctx context.Context, taskID, description string, claw map[string]any) error {
	return l.Record(ctx, taskID, constants.EventTaskStart, map[string]any{
		"task_desc": description,
		"claw_info": claw,
	})
}

// SubtaskStart records a subtask being handed to an agent.
func (l *TaskLog) SubtaskStart(ctx context.Context, taskID string, st *domain.Subtask, agentID string) error {
	return l.Record(ctx, taskID, constants.EventSubtaskStart, map[string]any{
		"subtask_id":   st.ID,
		"subtask_desc": st.Description,
		"agent_id":     agentID,
	})
}

// SubtaskComplete records a subtask result.
func (l *TaskLog) SubtaskComplete(ctx context.Context, taskID, subtaskID string, result *domain.ExecutionResult) error {
	return l.Record(ctx, taskID, constants.EventSubtaskComplete, map[string]any{
		"subtask_id": subtaskID,
		"result":     result,
	})
}

// Decision records a choice the hub or adaptive engine made.
func (l *TaskLog) Decision(ctx context.Context, taskID, decisionType, decision, rationale string) error {
	return l.Record(ctx, taskID, constants.EventDecision, map[string]any{
		"decision_type": decisionType,
		"decision":      decision,
		"rationale":     rationale,
	})
}

// Exception records a failure and an optional resolution.
func (l *TaskLog) Exception(ctx context.Context, taskID, errText, resolution string) error {
	data := map[string]any{"error": errText}
	if resolution != "" {
		data["resolution"] = resolution
	}
	return l.Record(ctx, taskID, constants.EventException, data)
}

// TaskComplete records delivery.
func (l *TaskLog) TaskComplete(ctx context.Context, taskID string, result map[string]any, feedback string) error {
	data := map[string]any{"result": result}
	if feedback != "" {
		data["feedback"] = feedback
	}
	return l.Record(ctx, taskID, constants.EventTaskComplete, data)
}

// TaskLogs returns every event recorded for taskID in append order. An
// unknown task yields an empty list.
func (l *TaskLog) TaskLogs(ctx context.Context, taskID string) ([]domain.Event, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := store.ValidateKey(taskID); err != nil {
		return nil, fmt.Errorf("failed to read task log: %w", err)
	}

	if l.dir == "" {
		l.mu.Lock()
		defer l.mu.Unlock()
		return append([]domain.Event(nil), l.mem[taskID]...), nil
	}
	events, err := readLines[domain.Event](l.path(taskID), l.logger)
	if err != nil {
		return nil, olyerrors.Wrapf(err, "task %s", taskID)
	}
	return events, nil
}
