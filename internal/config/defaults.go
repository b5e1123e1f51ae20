package config

import (
	"github.com/mrz1836/olympus/internal/constants"
)

// Storage backend and LLM provider names. These mirror the values accepted
// by the store and ai packages, which config must not import.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"

	ProviderMock      = "mock"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// DefaultConfig returns a new Config with the built-in defaults.
// These are the base layer that files and environment variables override.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:     BackendFile,
			RedisPrefix: constants.DefaultRedisPrefix,
		},
		LLM: LLMConfig{
			// The mock collaborator needs no credentials, so a fresh install works offline.
			Provider:  ProviderMock,
			Timeout:   constants.DefaultLLMTimeout,
			MaxTokens: constants.DefaultMaxTokens,
		},
		Evolution: EvolutionConfig{
			MiningInterval: constants.DefaultMiningInterval,
			MinSuccesses:   constants.DefaultMinSuccesses,
			HistoryLimit:   constants.DefaultHistoryLimit,
			TopMembers:     constants.DefaultTopMembers,
		},
		Hub: HubConfig{
			FailureKeyword:   constants.DefaultFailureKeyword,
			DefaultAgentType: constants.DefaultAgentType,
		},
		Server: ServerConfig{
			Addr:            constants.DefaultServerAddr,
			ShutdownTimeout: constants.DefaultShutdownTimeout,
		},
	}
}
