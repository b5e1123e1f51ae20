// Package testutil provides shared test doubles for Olympus.
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors used to simulate collaborator and backend failures.
var (
	// ErrMockAgentUnavailable mimics an execution service whose agent is offline.
	ErrMockAgentUnavailable = errors.New("agent data_agent unavailable")

	// ErrMockSkillMismatch mimics an agent refusing work outside its skills.
	ErrMockSkillMismatch = errors.New("agent cannot perform task: skill mismatch")

	// ErrMockTimeout mimics a collaborator that ran out of time.
	ErrMockTimeout = errors.New("request timeout")

	// ErrMockBackend mimics a persistence backend failure.
	ErrMockBackend = errors.New("backend unavailable")

	// ErrMockLLM mimics an LLM provider error.
	ErrMockLLM = errors.New("llm provider error")
)
