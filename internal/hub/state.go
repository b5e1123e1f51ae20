// Package hub is the Olympus orchestrator. It owns the task lifecycle and
// sequences receipt, decomposition, team formation, execution and delivery,
// calling into memory, the collaborators and the engines at each step.
//
// This file implements the task state machine, which enforces forward-only
// transitions and keeps an audit trail of every status change.
//
// Import rules:
//   - CAN import: internal/constants, internal/domain, internal/errors, memory,
//     ai, adaptive, evolution, eventlog, std lib
//   - MUST NOT import: internal/api, internal/cli
package hub

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/ctxutil"
	"github.com/mrz1836/olympus/internal/domain"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

// ValidTransitions defines all allowed state transitions in the task lifecycle.
// Each status has exactly one successor:
//
//	Received → Parsed → Ready → Executing → Completed → Delivered
//
//nolint:gochecknoglobals // Exported for testing and read-only lookup table
var ValidTransitions = map[constants.TaskStatus][]constants.TaskStatus{
	constants.TaskStatusReceived:  {constants.TaskStatusParsed},
	constants.TaskStatusParsed:    {constants.TaskStatusReady},
	constants.TaskStatusReady:     {constants.TaskStatusExecuting},
	constants.TaskStatusExecuting: {constants.TaskStatusCompleted},
	constants.TaskStatusCompleted: {constants.TaskStatusDelivered},
}

// IsValidTransition checks if a transition from one status to another is allowed.
// Returns false for the terminal state and for same-status transitions.
func IsValidTransition(from, to constants.TaskStatus) bool {
	if from == to {
		return false
	}
	return slices.Contains(ValidTransitions[from], to)
}

// IsTerminalStatus returns true once a task has been delivered.
func IsTerminalStatus(status constants.TaskStatus) bool {
	return status == constants.TaskStatusDelivered
}

// IsActiveStatus returns true for tasks that have not been delivered.
func IsActiveStatus(status constants.TaskStatus) bool {
	_, ok := ValidTransitions[status]
	return ok
}

// Transition validates and applies a state transition to the task.
// It records the transition in the task's history and updates timestamps.
// The caller is responsible for keeping working memory in step.
//
// Returns an error if:
//   - ctx is canceled
//   - task is nil
//   - The transition is invalid (returns wrapped ErrInvalidTransition)
func Transition(ctx context.Context, task *domain.Task, to constants.TaskStatus, reason string, now time.Time) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("%w: task is nil", olyerrors.ErrInvalidTransition)
	}

	from := task.Status
	if !IsValidTransition(from, to) {
		return fmt.Errorf("%w: task %s cannot move from %s to %s",
			olyerrors.ErrInvalidTransition, task.ID, from, to)
	}

	task.Transitions = append(task.Transitions, domain.Transition{
		FromStatus: from,
		ToStatus:   to,
		Timestamp:  now,
		Reason:     reason,
	})
	task.Status = to
	task.UpdatedAt = now

	if IsTerminalStatus(to) {
		task.DeliveredAt = &now
	}
	return nil
}

// requireStatus fails with ErrInvalidTransition unless the task can move to next.
func requireStatus(task *domain.Task, next constants.TaskStatus) error {
	if !IsValidTransition(task.Status, next) {
		return fmt.Errorf("%w: task %s is %s, cannot move to %s",
			olyerrors.ErrInvalidTransition, task.ID, task.Status, next)
	}
	return nil
}
