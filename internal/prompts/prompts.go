package prompts

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// Render fills the prompt template with data. Each prompt takes its own
// data struct, e.g. ExecuteSystem takes ExecuteSystemData. Trailing
// newlines are trimmed.
func Render(id PromptID, data any) (string, error) {
	if err := checkData(id, data); err != nil {
		return "", err
	}
	tmpl, _, err := lookup(id)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRender, id, err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// List returns every prompt ID in sorted order.
func List() []PromptID {
	return slices.Clone(allPrompts)
}

// Source returns the raw template text of a prompt.
func Source(id PromptID) (string, error) {
	_, src, err := lookup(id)
	return src, err
}

func checkData(id PromptID, data any) error {
	var ok bool
	switch id {
	case DecomposeSystem:
		_, ok = data.(DecomposeSystemData)
	case Decompose:
		_, ok = data.(DecomposeData)
	case ExecuteSystem:
		_, ok = data.(ExecuteSystemData)
	case Execute:
		_, ok = data.(ExecuteData)
	default:
		return fmt.Errorf("%w: %s", ErrPromptNotFound, id)
	}
	if !ok {
		return fmt.Errorf("%w: %s got %T", ErrPromptData, id, data)
	}
	return nil
}
