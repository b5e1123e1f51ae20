package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockErrors(t *testing.T) {
	for _, err := range []error{
		ErrMockAgentUnavailable,
		ErrMockSkillMismatch,
		ErrMockTimeout,
		ErrMockBackend,
		ErrMockLLM,
	} {
		assert.NotEmpty(t, err.Error())
	}
	assert.Contains(t, ErrMockAgentUnavailable.Error(), "unavailable")
	assert.Contains(t, ErrMockSkillMismatch.Error(), "cannot")
}
