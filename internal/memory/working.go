// Package memory implements the three Olympus memory tiers.
//
// Working memory is per-task scratch state that lives only while a task is in
// flight. Episodic memory is the permanent archive of delivered tasks.
// Semantic memory is the durable knowledge base of agent profiles, task
// patterns and collaboration rules, and hosts the capability matcher.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mrz1836/olympus/internal/clock"
	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/domain"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

// Working holds one scratch context per active task, keyed by task id.
type Working struct {
	mu       sync.Mutex
	contexts map[string]*domain.WorkingContext
	clock    clock.Clock
	logger   zerolog.Logger
}

// NewWorking returns an empty working memory.
func NewWorking(logger zerolog.Logger, clk clock.Clock) *Working {
	return &Working{
		contexts: make(map[string]*domain.WorkingContext),
		clock:    clk,
		logger:   logger,
	}
}

// InitTask opens a fresh context for taskID. A context that is still live
// for the same task is overwritten with a warning.
func (w *Working) InitTask(taskID, description string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, live := w.contexts[taskID]; live {
		w.logger.Warn().
			Str("task_id", taskID).
			Msg("working context was not flushed, overwriting")
	}

	now := w.clock.Now()
	w.contexts[taskID] = &domain.WorkingContext{
		TaskID:      taskID,
		Description: description,
		Values: map[string]any{
			domain.ContextTaskID:    taskID,
			domain.ContextTaskDesc:  description,
			domain.ContextCreatedAt: now,
			domain.ContextStatus:    constants.TaskStatusReceived.String(),
		},
		Messages:  []domain.Message{},
		CreatedAt: now,
	}
}

func (w *Working) get(taskID string) (*domain.WorkingContext, error) {
	wc, ok := w.contexts[taskID]
	if !ok {
		return nil, fmt.Errorf("no working context for task %s: %w", taskID, olyerrors.ErrTaskNotFound)
	}
	return wc, nil
}

// AddMessage appends to the task's message log.
func (w *Working) AddMessage(taskID, sender, receiver, content string, metadata map[string]any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	wc, err := w.get(taskID)
	if err != nil {
		return err
	}
	wc.Messages = append(wc.Messages, domain.Message{
		Timestamp: w.clock.Now(),
		Sender:    sender,
		Receiver:  receiver,
		Content:   content,
		Metadata:  metadata,
	})
	return nil
}

// UpdateContext sets key to value in the task's context.
func (w *Working) UpdateContext(taskID, key string, value any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	wc, err := w.get(taskID)
	if err != nil {
		return err
	}
	wc.Values[key] = value
	return nil
}

// GetContext returns the value under key, or a snapshot of the whole
// context when key is empty. A missing key yields nil.
func (w *Working) GetContext(taskID, key string) (any, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	wc, err := w.get(taskID)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return maps.Clone(wc.Values), nil
	}
	return wc.Values[key], nil
}

// Snapshot returns a shallow copy of the task's context.
func (w *Working) Snapshot(taskID string) (map[string]any, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	wc, err := w.get(taskID)
	if err != nil {
		return nil, err
	}
	return maps.Clone(wc.Values), nil
}

// Messages returns a copy of the task's message log.
func (w *Working) Messages(taskID string) ([]domain.Message, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	wc, err := w.get(taskID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(wc.Messages), nil
}

// ExportToEpisodic writes the task's context and messages as one episodic
// record keyed by task id. Calling it twice overwrites the same record.
func (w *Working) ExportToEpisodic(ctx context.Context, taskID string, episodic *Episodic) error {
	w.mu.Lock()
	wc, err := w.get(taskID)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	rec := &domain.EpisodicRecord{
		TaskID:      taskID,
		Context:     maps.Clone(wc.Values),
		Messages:    slices.Clone(wc.Messages),
		CompletedAt: w.clock.Now(),
	}
	w.mu.Unlock()

	return episodic.Save(ctx, rec)
}

// Clear discards the task's context. Clearing an unknown task is a no-op.
func (w *Working) Clear(taskID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.contexts, taskID)
}

// CompleteTask marks the context finished, exports it and clears it.
// The context survives if the export fails.
func (w *Working) CompleteTask(ctx context.Context, taskID string, success bool, feedback string, episodic *Episodic) error {
	w.mu.Lock()
	wc, err := w.get(taskID)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	wc.Values[domain.ContextCompleted] = true
	wc.Values[domain.ContextSuccess] = success
	wc.Values[domain.ContextFeedback] = feedback
	w.mu.Unlock()

	if err := w.ExportToEpisodic(ctx, taskID, episodic); err != nil {
		return err
	}
	w.Clear(taskID)
	return nil
}

// Active returns the ids of tasks with a live context, sorted.
func (w *Working) Active() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	ids := make([]string, 0, len(w.contexts))
	for id := range w.contexts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
