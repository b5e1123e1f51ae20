package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mrz1836/olympus/internal/ctxutil"
	"github.com/mrz1836/olympus/internal/domain"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
	"github.com/mrz1836/olympus/internal/prompts"
)

// completer sends one system+user prompt pair and returns the reply text.
type completer interface {
	complete(ctx context.Context, system, prompt string) (string, error)
}

// agentTypes are the personas the decomposition prompt offers the model.
//
//nolint:gochecknoglobals // fixed prompt vocabulary
var agentTypes = []string{"athena", "hermes", "apollo", "hephaestus", "muse", "hestia", "themis", "aphrodite", "echo", "daedalus"}

// LLMClient implements Client on top of a text completion backend.
type LLMClient struct {
	name    string
	backend completer
	timeout time.Duration
	newID   func() string
}

// NewLLMClient wraps a completion backend. A zero timeout disables the
// per-call deadline.
func NewLLMClient(name string, backend completer, timeout time.Duration) *LLMClient {
	return &LLMClient{
		name:    name,
		backend: backend,
		timeout: timeout,
		newID:   shortID,
	}
}

// Name returns the provider name.
func (c *LLMClient) Name() string {
	return c.name
}

func (c *LLMClient) call(ctx context.Context, system, prompt string) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	reply, err := c.backend.complete(ctx, system, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", olyerrors.ErrCollaboratorUnavailable, c.name, err)
	}
	return reply, nil
}

// Decompose asks the model for a subtask list.
func (c *LLMClient) Decompose(ctx context.Context, description string, taskContext map[string]any) ([]domain.Subtask, error) {
	system, err := prompts.Render(prompts.DecomposeSystem, prompts.DecomposeSystemData{AgentTypes: agentTypes})
	if err != nil {
		return nil, err
	}
	prompt, err := prompts.Render(prompts.Decompose, prompts.DecomposeData{
		Description: description,
		Context:     encodeContext(taskContext),
	})
	if err != nil {
		return nil, err
	}

	reply, err := c.call(ctx, system, prompt)
	if err != nil {
		return nil, err
	}
	return ParseSubtasks(reply, c.newID)
}

// Execute asks the model to perform a subtask as agentType.
func (c *LLMClient) Execute(ctx context.Context, agentType, description string, taskContext map[string]any) (*domain.ExecutionResult, error) {
	system, err := prompts.Render(prompts.ExecuteSystem, prompts.ExecuteSystemData{AgentType: agentType})
	if err != nil {
		return nil, err
	}
	prompt, err := prompts.Render(prompts.Execute, prompts.ExecuteData{
		Description: description,
		Context:     encodeContext(taskContext),
	})
	if err != nil {
		return nil, err
	}

	reply, err := c.call(ctx, system, prompt)
	if err != nil {
		return nil, err
	}
	return ParseExecutionResult(reply, agentType, description)
}

func encodeContext(taskContext map[string]any) string {
	if len(taskContext) == 0 {
		return ""
	}
	data, err := json.Marshal(taskContext)
	if err != nil {
		return ""
	}
	return string(data)
}
