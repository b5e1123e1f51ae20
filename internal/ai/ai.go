// Package ai provides the decomposition and execution collaborators the hub
// delegates to: a deterministic mock, LLM-backed clients, and a fallback
// wrapper that degrades to the mock when an LLM call fails.
package ai

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/domain"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

// Decomposer turns a task description into an ordered list of subtask drafts.
type Decomposer interface {
	Decompose(ctx context.Context, description string, taskContext map[string]any) ([]domain.Subtask, error)
}

// Executor runs one subtask on behalf of an agent type.
// A returned error or a result with Success=false is a subtask failure.
type Executor interface {
	Execute(ctx context.Context, agentType, description string, taskContext map[string]any) (*domain.ExecutionResult, error)
}

// Client is a collaborator that can both decompose and execute.
type Client interface {
	Decomposer
	Executor
}

// Provider names.
const (
	ProviderMock      = "mock"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Options selects and tunes a collaborator.
type Options struct {
	Provider string

	// Model overrides the provider default. Ignored by the openai provider,
	// which reads OPENAI_MODEL from the environment.
	Model string

	// APIKeyEnvVar names the environment variable holding the API key.
	APIKeyEnvVar string

	Timeout   time.Duration
	MaxTokens int
}

// DefaultAPIKeyEnvVar returns the conventional key variable for a provider.
func DefaultAPIKeyEnvVar(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	}
	return ""
}

// New builds the collaborator named by opts.Provider. LLM providers are
// wrapped in a Fallback so decomposition never fails outright. A missing API
// key degrades to the mock with a warning.
func New(opts Options, logger zerolog.Logger) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = ProviderMock
	}
	mock := NewMock()

	if provider == ProviderMock {
		return mock, nil
	}
	if provider != ProviderAnthropic && provider != ProviderOpenAI {
		return nil, fmt.Errorf("%w: %q", olyerrors.ErrUnknownProvider, opts.Provider)
	}

	envVar := opts.APIKeyEnvVar
	if envVar == "" {
		envVar = DefaultAPIKeyEnvVar(provider)
	}
	apiKey := os.Getenv(envVar)
	if apiKey == "" {
		logger.Warn().
			Err(olyerrors.ErrMissingAPIKey).
			Str("provider", provider).
			Str("env_var", envVar).
			Msg("api key not set, using mock collaborator")
		return mock, nil
	}

	var (
		c   completer
		err error
	)
	switch provider {
	case ProviderAnthropic:
		c = newAnthropicCompleter(apiKey, opts.Model, opts.MaxTokens)
	case ProviderOpenAI:
		c, err = newLangChainCompleter()
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
	}

	llm := NewLLMClient(provider, c, opts.Timeout)
	return NewFallback(llm, mock, logger), nil
}

// shortID returns the first SubtaskIDLength characters of a fresh uuid.
func shortID() string {
	return uuid.NewString()[:constants.SubtaskIDLength]
}
