// Package prompts renders the LLM prompts used by the collaborator clients.
// The prompts are text/template files embedded in the binary.
package prompts

import "errors"

var (
	// ErrPromptNotFound means no embedded template carries the prompt ID.
	ErrPromptNotFound = errors.New("prompt not found")

	// ErrPromptData means the data value does not match the prompt's data type.
	ErrPromptData = errors.New("prompt data has the wrong type")

	// ErrRender wraps template execution failures.
	ErrRender = errors.New("prompt render failed")
)
