package config

import (
	"slices"
	"sort"

	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/errors"
)

// maxHistoryLimit caps the per-agent history so profiles stay small.
const maxHistoryLimit = 1000

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - storage.backend must be file, sqlite, redis or memory
//   - storage.redis_addr is required for the redis backend
//   - llm.provider must be mock, anthropic or openai
//   - llm.timeout and llm.max_tokens must be positive
//   - evolution counts must be positive; mining_interval may be zero
//   - adaptive strategies must be known, with probability in [0,1]
//   - hub keyword and default agent type must not be empty
//   - server.addr must not be empty and shutdown_timeout must be positive
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}
	if err := validateStorageConfig(&cfg.Storage); err != nil {
		return err
	}
	if err := validateLLMConfig(&cfg.LLM); err != nil {
		return err
	}
	if err := validateEvolutionConfig(&cfg.Evolution); err != nil {
		return err
	}
	if err := validateAdaptiveConfig(&cfg.Adaptive); err != nil {
		return err
	}
	if err := validateHubConfig(&cfg.Hub); err != nil {
		return err
	}
	return validateServerConfig(&cfg.Server)
}

func validateStorageConfig(cfg *StorageConfig) error {
	switch cfg.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return errors.Wrap(errors.ErrConfigInvalidStorage,
				"storage.redis_addr must be set for the redis backend")
		}
	default:
		return errors.Wrapf(errors.ErrConfigInvalidStorage,
			"storage.backend must be one of file, sqlite, redis, memory, got %q", cfg.Backend)
	}
	return nil
}

func validateLLMConfig(cfg *LLMConfig) error {
	switch cfg.Provider {
	case ProviderMock, ProviderAnthropic, ProviderOpenAI:
	default:
		return errors.Wrapf(errors.ErrConfigInvalidLLM,
			"llm.provider must be one of mock, anthropic, openai, got %q", cfg.Provider)
	}
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidLLM,
			"llm.timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.MaxTokens <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidLLM,
			"llm.max_tokens must be positive, got %d", cfg.MaxTokens)
	}
	return nil
}

func validateEvolutionConfig(cfg *EvolutionConfig) error {
	if cfg.MiningInterval < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidEvolution,
			"evolution.mining_interval cannot be negative, got %d", cfg.MiningInterval)
	}
	if cfg.MinSuccesses < 1 {
		return errors.Wrapf(errors.ErrConfigInvalidEvolution,
			"evolution.min_successes must be at least 1, got %d", cfg.MinSuccesses)
	}
	if cfg.HistoryLimit < 1 || cfg.HistoryLimit > maxHistoryLimit {
		return errors.Wrapf(errors.ErrConfigInvalidEvolution,
			"evolution.history_limit must be between 1 and %d, got %d", maxHistoryLimit, cfg.HistoryLimit)
	}
	if cfg.TopMembers < 1 {
		return errors.Wrapf(errors.ErrConfigInvalidEvolution,
			"evolution.top_members must be at least 1, got %d", cfg.TopMembers)
	}
	return nil
}

//nolint:gochecknoglobals // read-only lookup table
var knownStrategies = []constants.RecoveryStrategy{
	constants.StrategyFindAlternativeAgent,
	constants.StrategyDecomposeFurther,
	constants.StrategyReassignAgent,
	constants.StrategyHubMediation,
	constants.StrategyRequestHumanHelp,
}

func validateAdaptiveConfig(cfg *AdaptiveConfig) error {
	names := make([]string, 0, len(cfg.Strategies))
	for name := range cfg.Strategies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := cfg.Strategies[name]
		if !slices.Contains(knownStrategies, constants.RecoveryStrategy(name)) {
			return errors.Wrapf(errors.ErrConfigInvalidAdaptive,
				"adaptive.strategies: unknown strategy %q", name)
		}
		if s.SuccessProbability < 0 || s.SuccessProbability > 1 {
			return errors.Wrapf(errors.ErrConfigInvalidAdaptive,
				"adaptive.strategies.%s.success_probability must be between 0 and 1, got %g", name, s.SuccessProbability)
		}
		if s.EstimatedMinutes < 0 {
			return errors.Wrapf(errors.ErrConfigInvalidAdaptive,
				"adaptive.strategies.%s.estimated_minutes cannot be negative, got %d", name, s.EstimatedMinutes)
		}
	}
	return nil
}

func validateHubConfig(cfg *HubConfig) error {
	if cfg.FailureKeyword == "" {
		return errors.Wrap(errors.ErrConfigInvalidHub, "hub.failure_keyword must not be empty")
	}
	if cfg.DefaultAgentType == "" {
		return errors.Wrap(errors.ErrConfigInvalidHub, "hub.default_agent_type must not be empty")
	}
	return nil
}

func validateServerConfig(cfg *ServerConfig) error {
	if cfg.Addr == "" {
		return errors.Wrap(errors.ErrConfigInvalidServer, "server.addr must not be empty")
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidServer,
			"server.shutdown_timeout must be positive, got %s", cfg.ShutdownTimeout)
	}
	return nil
}
