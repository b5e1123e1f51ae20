// Package constants provides centralized constant values used throughout Olympus.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Store namespaces. Each is an independent key space in the persistence layer.
const (
	// NamespaceAgents holds agent profiles keyed by agent id.
	NamespaceAgents = "agents"

	// NamespacePatterns holds mined task patterns keyed by pattern id.
	NamespacePatterns = "patterns"

	// NamespaceRules holds collaboration rules keyed by rule id.
	NamespaceRules = "rules"

	// NamespaceEpisodic holds archived task executions keyed by task id.
	NamespaceEpisodic = "episodic"
)

// Evolution defaults.
const (
	// DefaultHistoryLimit is how many task outcomes an agent profile keeps.
	DefaultHistoryLimit = 50

	// DefaultMiningInterval triggers pattern discovery every N delivered tasks.
	DefaultMiningInterval = 5

	// DefaultMinSuccesses is the smallest cluster that can become a pattern.
	DefaultMinSuccesses = 3

	// DefaultTopMembers is how many agents a mined pattern recommends.
	DefaultTopMembers = 3

	// DefaultSimilarTasksLimit bounds episodic similarity lookups.
	DefaultSimilarTasksLimit = 5
)

// Hub defaults.
const (
	// DefaultFailureKeyword marks delivery feedback as a failure when present.
	DefaultFailureKeyword = "失败"

	// DefaultAgentType is used when a subtask carries no agent-type hint.
	DefaultAgentType = "content_agent"

	// DefaultUserID is assigned when a request names no user.
	DefaultUserID = "default"

	// SubtaskIDLength is the number of characters kept from a generated subtask id.
	SubtaskIDLength = 8

	// ClawIDPrefix prefixes every team id derived from a task id.
	ClawIDPrefix = "claw_"
)

// LLM defaults.
const (
	// DefaultLLMTimeout bounds a single decomposition or execution call.
	DefaultLLMTimeout = 2 * time.Minute

	// DefaultMaxTokens is the completion budget for LLM calls.
	DefaultMaxTokens = 2000

	// DefaultExecutionMinutes is reported when a collaborator omits execution time.
	DefaultExecutionMinutes = 30.0

	// DefaultEstimatedMinutes is assigned to subtask drafts without an estimate.
	DefaultEstimatedMinutes = 30

	// DefaultConfidence is reported when a collaborator omits confidence.
	DefaultConfidence = 0.9
)

// Server defaults.
const (
	// DefaultServerAddr is the HTTP listen address for `olympus serve`.
	DefaultServerAddr = ":8080"

	// DefaultShutdownTimeout bounds graceful HTTP shutdown.
	DefaultShutdownTimeout = 15 * time.Second
)

// Redis defaults.
const (
	// DefaultRedisPrefix namespaces every key the redis backend writes.
	DefaultRedisPrefix = "olympus"
)

// Log rotation settings for the CLI log file.
const (
	LogMaxSizeMB  = 10
	LogMaxBackups = 5
	LogMaxAgeDays = 30
	LogCompress   = true
)
