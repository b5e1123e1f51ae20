// Package config provides configuration management for Olympus with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. Environment variables (OLYMPUS_* prefix)
//  2. Project config (.olympus/config.yaml)
//  3. Global config (~/.olympus/config.yaml)
//  4. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for Olympus.
type Config struct {
	// Storage selects the persistence backend for the memory tiers.
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`

	// LLM selects the decomposition and execution collaborator.
	LLM LLMConfig `yaml:"llm" mapstructure:"llm"`

	// Evolution tunes agent evolution and pattern mining.
	Evolution EvolutionConfig `yaml:"evolution" mapstructure:"evolution"`

	// Adaptive overrides the recovery strategy estimates.
	Adaptive AdaptiveConfig `yaml:"adaptive" mapstructure:"adaptive"`

	// Hub tunes the orchestrator.
	Hub HubConfig `yaml:"hub" mapstructure:"hub"`

	// Server contains settings for `olympus serve`.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Roster points at an optional agent roster file.
	Roster RosterConfig `yaml:"roster" mapstructure:"roster"`
}

// StorageConfig selects where profiles, patterns, rules and archived tasks live.
type StorageConfig struct {
	// Backend is one of file, sqlite, redis or memory.
	// Default: "file"
	Backend string `yaml:"backend" mapstructure:"backend"`

	// Dir is the data root. Empty means ~/.olympus.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// SQLitePath overrides <dir>/olympus.db for the sqlite backend.
	SQLitePath string `yaml:"sqlite_path" mapstructure:"sqlite_path"`

	// RedisAddr is host:port for the redis backend.
	RedisAddr string `yaml:"redis_addr" mapstructure:"redis_addr"`

	// RedisPrefix namespaces every redis key.
	// Default: "olympus"
	RedisPrefix string `yaml:"redis_prefix" mapstructure:"redis_prefix"`
}

// LLMConfig selects the collaborator used for decomposition and execution.
type LLMConfig struct {
	// Provider is one of mock, anthropic or openai.
	// Default: "mock"
	Provider string `yaml:"provider" mapstructure:"provider"`

	// Model overrides the provider's default model.
	Model string `yaml:"model" mapstructure:"model"`

	// APIKeyEnvVar names the environment variable holding the API key.
	// Empty means the provider's conventional variable.
	APIKeyEnvVar string `yaml:"api_key_env_var" mapstructure:"api_key_env_var"`

	// Timeout bounds a single LLM call.
	// Default: 2 minutes
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// MaxTokens is the completion budget per call.
	// Default: 2000
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// EvolutionConfig tunes individual and population evolution.
type EvolutionConfig struct {
	// MiningInterval triggers pattern discovery every N delivered tasks.
	// Zero disables automatic mining.
	// Default: 5
	MiningInterval int `yaml:"mining_interval" mapstructure:"mining_interval"`

	// MinSuccesses is the smallest cluster that can become a pattern.
	// Default: 3
	MinSuccesses int `yaml:"min_successes" mapstructure:"min_successes"`

	// HistoryLimit bounds the per-agent task history.
	// Default: 50
	HistoryLimit int `yaml:"history_limit" mapstructure:"history_limit"`

	// TopMembers is how many agents a mined pattern recommends.
	// Default: 3
	TopMembers int `yaml:"top_members" mapstructure:"top_members"`
}

// StrategyConfig overrides one recovery strategy's estimates.
type StrategyConfig struct {
	SuccessProbability float64 `yaml:"success_probability" mapstructure:"success_probability"`
	EstimatedMinutes   int     `yaml:"estimated_minutes" mapstructure:"estimated_minutes"`
}

// AdaptiveConfig overrides the built-in recovery strategy table.
type AdaptiveConfig struct {
	// Strategies maps a strategy name such as find_alternative_agent to its
	// estimates. Unlisted strategies keep the built-in values.
	Strategies map[string]StrategyConfig `yaml:"strategies" mapstructure:"strategies"`
}

// HubConfig tunes the orchestrator.
type HubConfig struct {
	// FailureKeyword marks delivery feedback as a failure when present.
	// Default: "失败"
	FailureKeyword string `yaml:"failure_keyword" mapstructure:"failure_keyword"`

	// DefaultAgentType is used for subtasks without an agent hint.
	// Default: "content_agent"
	DefaultAgentType string `yaml:"default_agent_type" mapstructure:"default_agent_type"`
}

// ServerConfig contains settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: ":8080"
	Addr string `yaml:"addr" mapstructure:"addr"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 15 seconds
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// RosterConfig points at an agent roster file.
type RosterConfig struct {
	// File is a YAML roster. Empty means the built-in roster.
	File string `yaml:"file" mapstructure:"file"`
}
