package ai

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrz1836/olympus/internal/domain"
)

// Fallback decorates a primary Client. Decomposition failures fall back to
// the secondary client so the hub always gets a plan. Execution failures are
// passed through: the hub records them on the subtask.
type Fallback struct {
	primary   Client
	secondary Client
	logger    zerolog.Logger
}

// NewFallback creates a Fallback over primary and secondary.
func NewFallback(primary, secondary Client, logger zerolog.Logger) *Fallback {
	return &Fallback{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// Decompose tries the primary decomposer and falls back on any error
// other than cancellation.
func (f *Fallback) Decompose(ctx context.Context, description string, taskContext map[string]any) ([]domain.Subtask, error) {
	subtasks, err := f.primary.Decompose(ctx, description, taskContext)
	if err == nil {
		return subtasks, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	f.logger.Warn().Err(err).Msg("decomposition failed, using template fallback")
	return f.secondary.Decompose(ctx, description, taskContext)
}

// Execute delegates to the primary executor.
func (f *Fallback) Execute(ctx context.Context, agentType, description string, taskContext map[string]any) (*domain.ExecutionResult, error) {
	return f.primary.Execute(ctx, agentType, description, taskContext)
}
