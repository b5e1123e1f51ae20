// Package errors provides centralized error handling for Olympus.
//
// Sentinel errors defined here categorize failures across the hub, the memory
// tiers and the persistence backends. All of them can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Lookup errors. These are programming errors: the caller named something that
// does not exist and the operation must fail visibly.
var (
	// ErrTaskNotFound indicates the task id is not known to the hub.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAgentNotFound indicates no profile is registered under the agent id.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrPatternNotFound indicates no pattern is stored under the pattern id.
	ErrPatternNotFound = errors.New("pattern not found")

	// ErrRuleNotFound indicates no rule is stored under the rule id.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrRecordNotFound indicates a persistence backend holds no record for the key.
	ErrRecordNotFound = errors.New("record not found")
)

// Lifecycle errors raised by the hub state machine.
var (
	// ErrInvalidTransition indicates a task status change that skips or
	// reverses a lifecycle step.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrTeamNotAssigned indicates execution was requested before a claw was formed.
	ErrTeamNotAssigned = errors.New("no team assigned to task")

	// ErrNoMatchedAgents indicates no registered agent covers any required skill.
	// The hub reports this as a result value, not a returned error; the sentinel
	// exists so outer layers can map the result to their own error surface.
	ErrNoMatchedAgents = errors.New("no matched agents")
)

// Input validation errors.
var (
	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrEmptyDescription indicates a task request with a blank description.
	ErrEmptyDescription = errors.New("task description cannot be empty")

	// ErrInvalidPriority indicates a priority outside low, normal, high and urgent.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidKey indicates a store key that could escape its namespace.
	ErrInvalidKey = errors.New("invalid store key")
)

// Persistence errors.
var (
	// ErrRecordCorrupted indicates a stored record could not be decoded.
	ErrRecordCorrupted = errors.New("record corrupted")

	// ErrLockTimeout indicates that acquiring a file lock timed out.
	ErrLockTimeout = errors.New("lock acquisition timed out")

	// ErrUnknownBackend indicates an unsupported storage backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Collaborator errors.
var (
	// ErrUnknownProvider indicates an unsupported LLM provider name.
	ErrUnknownProvider = errors.New("unknown llm provider")

	// ErrCollaboratorUnavailable indicates the decomposition or execution
	// service could not be reached or returned no usable answer.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	// ErrMalformedResponse indicates an LLM answer that held no parseable JSON.
	ErrMalformedResponse = errors.New("malformed llm response")

	// ErrMissingAPIKey indicates the configured API key environment variable is unset.
	ErrMissingAPIKey = errors.New("api key not set")
)

// Configuration errors.
var (
	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidStorage indicates an invalid storage configuration value.
	ErrConfigInvalidStorage = errors.New("invalid storage configuration")

	// ErrConfigInvalidLLM indicates an invalid LLM configuration value.
	ErrConfigInvalidLLM = errors.New("invalid LLM configuration")

	// ErrConfigInvalidEvolution indicates an invalid evolution configuration value.
	ErrConfigInvalidEvolution = errors.New("invalid evolution configuration")

	// ErrConfigInvalidAdaptive indicates an invalid adaptive configuration value.
	ErrConfigInvalidAdaptive = errors.New("invalid adaptive configuration")

	// ErrConfigInvalidServer indicates an invalid server configuration value.
	ErrConfigInvalidServer = errors.New("invalid server configuration")

	// ErrConfigInvalidHub indicates an invalid hub configuration value.
	ErrConfigInvalidHub = errors.New("invalid hub configuration")
)

// CLI errors.
var (
	// ErrInvalidOutputFormat indicates an unsupported --output value.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrServerResponse indicates the olympus server answered with an error status.
	ErrServerResponse = errors.New("server returned an error")
)
